package rental

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/kashidashibooks/kashidashi/pkg/errcodes"
	"github.com/kashidashibooks/kashidashi/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	rentalService *Service
}

func (h *handler) createReservation(c echo.Context) error {
	ctx := c.Request().Context()

	payload := CreateReservationPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	copyID, err := uuid.Parse(payload.CopyID)
	if err != nil {
		return errcodes.ValidationError("copy_id must be a valid UUID.")
	}
	futureRent, err := models.ParseDate(payload.FutureRent)
	if err != nil {
		return errors.WithStack(err)
	}
	futureReturn, err := models.ParseDate(payload.FutureReturn)
	if err != nil {
		return errors.WithStack(err)
	}

	reservation, err := h.rentalService.CreateReservation(ctx, CreateReservationOptions{
		CopyID:       copyID,
		BorrowerID:   payload.BorrowerID,
		FutureRent:   futureRent,
		FutureReturn: futureReturn,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, reservation))
}

func (h *handler) cancelReservation(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Reservation")
	}

	payload := CancelReservationPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	if err := h.rentalService.CancelReservation(ctx, id, payload.BorrowerID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) listReservations(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListReservationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListReservationsOptions{
		BorrowerID: params.BorrowerID,
		LiveOnly:   params.Live,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
	if params.CopyID != nil {
		copyID, err := uuid.Parse(*params.CopyID)
		if err != nil {
			return errcodes.ValidationError("copy_id must be a valid UUID.")
		}
		opts.CopyID = &copyID
	}

	reservations, total, err := h.rentalService.ListReservations(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"reservations": reservations,
		"total":        total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) createLoan(c echo.Context) error {
	ctx := c.Request().Context()

	payload := CreateLoanPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	copyID, err := uuid.Parse(payload.CopyID)
	if err != nil {
		return errcodes.ValidationError("copy_id must be a valid UUID.")
	}
	dueDate, err := models.ParseDate(payload.DueDate)
	if err != nil {
		return errors.WithStack(err)
	}

	loan, err := h.rentalService.Rent(ctx, RentOptions{
		CopyID:     copyID,
		BorrowerID: payload.BorrowerID,
		DueDate:    dueDate,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, loan))
}

func (h *handler) retrieveLoan(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Loan")
	}

	loan, err := h.rentalService.RetrieveLoan(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, loan))
}

func (h *handler) listLoans(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLoansQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListLoansOptions{
		BorrowerID: params.BorrowerID,
		Status:     params.Status,
		Overdue:    params.Overdue,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
	if params.CopyID != nil {
		copyID, err := uuid.Parse(*params.CopyID)
		if err != nil {
			return errcodes.ValidationError("copy_id must be a valid UUID.")
		}
		opts.CopyID = &copyID
	}

	loans, total, err := h.rentalService.ListLoans(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"loans": loans,
		"total": total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) returnLoan(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Loan")
	}

	payload := ReturnLoanPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	opts := ReturnOptions{
		LoanID:     id,
		BorrowerID: payload.BorrowerID,
	}
	if payload.ReturnedOn != nil {
		returnedOn, err := models.ParseDate(*payload.ReturnedOn)
		if err != nil {
			return errors.WithStack(err)
		}
		opts.ReturnedOn = returnedOn
	}
	if payload.Review != nil {
		opts.Review = &ReviewInput{
			Score: payload.Review.Score,
			Title: payload.Review.Title,
			Body:  payload.Review.Body,
		}
	}

	loan, err := h.rentalService.Return(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, loan))
}
