package books

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/kashidashibooks/kashidashi/pkg/availability"
	"github.com/kashidashibooks/kashidashi/pkg/errcodes"
	"github.com/kashidashibooks/kashidashi/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	booksService        *Service
	availabilityService *availability.Service
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	payload := RegisterPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}
	if payload.ISBN == nil && (payload.Title == "" || payload.Author == "") {
		return errcodes.ValidationError("Either an ISBN or a title and author are required.")
	}

	copy, err := h.booksService.Register(ctx, RegisterOptions{
		ISBN:        payload.ISBN,
		Title:       payload.Title,
		Author:      payload.Author,
		PublishDate: payload.PublishDate,
		Subject:     payload.Subject,
		CoverURL:    payload.CoverURL,
		StorageName: payload.StorageName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, copy))
}

func (h *handler) listBooks(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.booksService.ListBooks(ctx, ListBooksOptions{
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"books": books,
		"total": total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieveBook(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.booksService.RetrieveBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) listCopies(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListCopiesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	copies, total, err := h.booksService.ListCopies(ctx, ListCopiesOptions{
		Search: params.Search,
		BookID: params.BookID,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"copies": copies,
		"total":  total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieveCopy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Copy")
	}

	copy, err := h.booksService.RetrieveCopy(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, copy))
}

func (h *handler) deleteCopy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Copy")
	}

	if err := h.booksService.DeleteCopy(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) checkAvailability(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Copy")
	}

	params := CheckAvailabilityQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	asOf := models.Today()
	if params.Date != nil {
		asOf, err = models.ParseDate(*params.Date)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	// 404 before answering so a bogus copy id doesn't read as available.
	if _, err := h.booksService.RetrieveCopy(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	avail, err := h.availabilityService.Check(ctx, id, params.BorrowerID, asOf)
	if err != nil {
		return errors.WithStack(err)
	}

	earliest, err := h.availabilityService.EarliestAvailableDate(ctx, id, asOf)
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"availability":            avail,
		"earliest_available_date": earliest.Format(models.DateFormat),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
