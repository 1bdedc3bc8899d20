package rental

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kashidashibooks/kashidashi/pkg/availability"
	"github.com/kashidashibooks/kashidashi/pkg/config"
	"github.com/kashidashibooks/kashidashi/pkg/database"
	"github.com/kashidashibooks/kashidashi/pkg/errcodes"
	"github.com/kashidashibooks/kashidashi/pkg/models"
	"github.com/kashidashibooks/kashidashi/pkg/promoter"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Service handles reservations, direct rentals, and returns. Every state
// transition happens inside a single transaction; the open-loan unique index
// resolves races it can't see.
type Service struct {
	db       *bun.DB
	cfg      *config.Config
	promoter *promoter.Service
	log      logger.Logger
}

func NewService(db *bun.DB, cfg *config.Config, promoterService *promoter.Service) *Service {
	return &Service{db: db, cfg: cfg, promoter: promoterService, log: logger.New()}
}

// CreateReservationOptions contains options for reserving a copy.
type CreateReservationOptions struct {
	CopyID       uuid.UUID
	BorrowerID   int
	FutureRent   time.Time
	FutureReturn time.Time
}

// CreateReservation validates and writes a reservation for the half-open
// window [FutureRent, FutureReturn).
func (svc *Service) CreateReservation(ctx context.Context, opts CreateReservationOptions) (*models.Reservation, error) {
	reservation := &models.Reservation{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		copy, err := retrieveCopy(ctx, tx, opts.CopyID)
		if err != nil {
			return err
		}
		if err := borrowerExists(ctx, tx, opts.BorrowerID); err != nil {
			return err
		}

		today := models.Today()
		start := models.DateOf(opts.FutureRent)
		end := models.DateOf(opts.FutureReturn)

		if err := svc.validateWindow(start, end); err != nil {
			return err
		}

		// At most one live reservation per borrower across all copies of the
		// same book; this also covers the same copy.
		exists, err := tx.NewSelect().
			Model((*models.Reservation)(nil)).
			Join("JOIN copies AS c ON c.id = r.copy_id").
			Where("r.borrower_id = ?", opts.BorrowerID).
			Where("c.book_id = ?", copy.BookID).
			Where("r.future_return >= ?", today).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.DuplicateReservation()
		}

		exists, err = openLoanOnBookExists(ctx, tx, opts.BorrowerID, copy.BookID)
		if err != nil {
			return err
		}
		if exists {
			return errcodes.BorrowerHasActiveLoan()
		}

		earliest, err := availability.NewService(tx).EarliestAvailableDate(ctx, opts.CopyID, today)
		if err != nil {
			return err
		}
		if start.Before(earliest) {
			return errcodes.InvalidWindow(fmt.Sprintf("This copy is not available before %s.", earliest.Format(models.DateFormat)))
		}

		reservation = &models.Reservation{
			CreatedAt:    time.Now(),
			CopyID:       opts.CopyID,
			BorrowerID:   opts.BorrowerID,
			FutureRent:   start,
			FutureReturn: end,
		}
		_, err = tx.NewInsert().Model(reservation).Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		// An expired reservation the sweep hasn't collected yet still occupies
		// the (copy, borrower) slot.
		if database.IsUniqueViolation(err) {
			return nil, errcodes.DuplicateReservation()
		}
		return nil, err
	}

	return reservation, nil
}

// CancelReservation deletes the borrower's reservation. It is idempotent: a
// reservation that was already promoted or cancelled is a no-op.
func (svc *Service) CancelReservation(ctx context.Context, reservationID, borrowerID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Reservation)(nil)).
		Where("id = ?", reservationID).
		Where("borrower_id = ?", borrowerID).
		Exec(ctx)
	return errors.WithStack(err)
}

// RentOptions contains options for a direct rental starting today.
type RentOptions struct {
	CopyID     uuid.UUID
	BorrowerID int
	DueDate    time.Time
}

// Rent creates an open loan starting today, provided the copy is free, the
// borrower is under the open-loan cap, and no reservation overlaps the loan
// period.
func (svc *Service) Rent(ctx context.Context, opts RentOptions) (*models.Loan, error) {
	loan := &models.Loan{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		copy, err := retrieveCopy(ctx, tx, opts.CopyID)
		if err != nil {
			return err
		}
		if err := borrowerExists(ctx, tx, opts.BorrowerID); err != nil {
			return err
		}

		today := models.Today()
		due := models.DateOf(opts.DueDate)

		if err := svc.validateWindow(today, due); err != nil {
			return err
		}

		// The loan cap applies only to direct rentals, not reservations.
		openLoans, err := tx.NewSelect().
			Model((*models.Loan)(nil)).
			Where("l.borrower_id = ?", opts.BorrowerID).
			Where("l.status = ?", models.LoanStatusOpen).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if openLoans >= svc.cfg.MaxOpenLoans {
			return errcodes.TooManyActiveLoans(svc.cfg.MaxOpenLoans)
		}

		exists, err := openLoanOnBookExists(ctx, tx, opts.BorrowerID, copy.BookID)
		if err != nil {
			return err
		}
		if exists {
			return errcodes.BorrowerHasActiveLoan()
		}

		avail, err := availability.NewService(tx).Check(ctx, opts.CopyID, opts.BorrowerID, today)
		if err != nil {
			return err
		}
		if avail.State == availability.StateOnLoan {
			return errcodes.Conflict("This copy is no longer available.")
		}

		// Any reservation overlapping the loan period blocks a direct
		// rental; the borrower's own reservation does not (promotion cleans
		// it up as a duplicate once the loan exists).
		exists, err = tx.NewSelect().
			Model((*models.Reservation)(nil)).
			Where("r.copy_id = ?", opts.CopyID).
			Where("r.borrower_id != ?", opts.BorrowerID).
			Where("r.future_rent <= ?", due).
			Where("r.future_return > ?", today).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.ReservationConflict()
		}

		now := time.Now()
		loan = &models.Loan{
			CreatedAt:  now,
			UpdatedAt:  now,
			CopyID:     opts.CopyID,
			BorrowerID: opts.BorrowerID,
			Status:     models.LoanStatusOpen,
			LoanStart:  today,
			DueDate:    due,
		}
		_, err = tx.NewInsert().Model(loan).Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			// Lost the open-loan race to a concurrent rental or promotion.
			// The unique index already picked a winner, so this is always a
			// conflict, never a server error.
			return nil, errcodes.Conflict("This copy is no longer available.")
		}
		return nil, err
	}

	return loan, nil
}

// ReviewInput is an optional review recorded at return time.
type ReviewInput struct {
	Score int
	Title string
	Body  string
}

// ReturnOptions contains options for returning a loan.
type ReturnOptions struct {
	LoanID     int
	BorrowerID int
	ReturnedOn time.Time
	Review     *ReviewInput
}

// Return marks the loan returned and, if given, creates or updates the
// borrower's review of the book. It then re-evaluates waiting reservations on
// the copy and promotes the earliest eligible one.
func (svc *Service) Return(ctx context.Context, opts ReturnOptions) (*models.Loan, error) {
	loan := &models.Loan{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(loan).
			Relation("Copy").
			Where("l.id = ?", opts.LoanID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Loan")
			}
			return errors.WithStack(err)
		}
		if loan.BorrowerID != opts.BorrowerID {
			return errcodes.NotFound("Loan")
		}
		if !loan.Open() {
			return errcodes.ValidationError("Loan is already returned.")
		}

		returnedOn := models.DateOf(opts.ReturnedOn)
		if opts.ReturnedOn.IsZero() {
			returnedOn = models.Today()
		}

		loan.Status = models.LoanStatusReturned
		loan.ReturnedOn = &returnedOn
		loan.UpdatedAt = time.Now()
		_, err = tx.NewUpdate().
			Model(loan).
			Column("status", "returned_on", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if opts.Review != nil {
			now := time.Now()
			review := &models.Review{
				CreatedAt:  now,
				UpdatedAt:  now,
				BookID:     loan.Copy.BookID,
				BorrowerID: opts.BorrowerID,
				Score:      opts.Review.Score,
				Title:      opts.Review.Title,
				Body:       opts.Review.Body,
				ReviewedOn: returnedOn,
			}
			_, err = tx.NewInsert().
				Model(review).
				On("CONFLICT (book_id, borrower_id) DO UPDATE").
				Set("score = EXCLUDED.score").
				Set("title = EXCLUDED.title").
				Set("body = EXCLUDED.body").
				Set("reviewed_on = EXCLUDED.reviewed_on").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Release hook: promote the earliest eligible reservation for this copy.
	// The return itself already succeeded, so a hook failure is logged and
	// left for the next sweep rather than surfaced.
	outcome, err := svc.promoter.PromoteNext(ctx, loan.CopyID)
	if err != nil {
		svc.log.Err(err).Error("return hook promotion error", logger.Data{"copy_id": loan.CopyID.String()})
	} else if outcome == promoter.OutcomeConverted {
		svc.log.Info("return hook promoted reservation", logger.Data{"copy_id": loan.CopyID.String()})
	}

	return loan, nil
}

func (svc *Service) validateWindow(start, end time.Time) error {
	if !start.Before(end) {
		return errcodes.InvalidWindow("The start date must be before the end date.")
	}
	maxEnd := start.AddDate(0, 0, svc.cfg.MaxWindowDays)
	if end.After(maxEnd) {
		return errcodes.InvalidWindow(fmt.Sprintf("The period can't be longer than %d days.", svc.cfg.MaxWindowDays))
	}
	return nil
}

// RetrieveLoan gets a loan by ID.
func (svc *Service) RetrieveLoan(ctx context.Context, id int) (*models.Loan, error) {
	loan := &models.Loan{}
	err := svc.db.NewSelect().
		Model(loan).
		Relation("Copy").
		Relation("Copy.Book").
		Relation("Borrower").
		Where("l.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Loan")
		}
		return nil, errors.WithStack(err)
	}
	return loan, nil
}

// ListLoansOptions contains options for listing loans.
type ListLoansOptions struct {
	BorrowerID *int
	CopyID     *uuid.UUID
	Status     *string
	Overdue    bool
	Limit      int
	Offset     int
}

// ListLoans returns a paginated list of loans, newest first.
func (svc *Service) ListLoans(ctx context.Context, opts ListLoansOptions) ([]*models.Loan, int, error) {
	loans := []*models.Loan{}

	q := svc.db.NewSelect().
		Model(&loans).
		Relation("Copy").
		Relation("Copy.Book").
		Relation("Borrower").
		Order("l.id DESC")

	if opts.BorrowerID != nil {
		q = q.Where("l.borrower_id = ?", *opts.BorrowerID)
	}
	if opts.CopyID != nil {
		q = q.Where("l.copy_id = ?", *opts.CopyID)
	}
	if opts.Status != nil {
		q = q.Where("l.status = ?", *opts.Status)
	}
	if opts.Overdue {
		q = q.Where("l.status = ?", models.LoanStatusOpen).
			Where("l.due_date < ?", models.Today())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return loans, total, nil
}

// ListReservationsOptions contains options for listing reservations.
type ListReservationsOptions struct {
	BorrowerID *int
	CopyID     *uuid.UUID
	LiveOnly   bool
	Limit      int
	Offset     int
}

// ListReservations returns reservations in promotion order.
func (svc *Service) ListReservations(ctx context.Context, opts ListReservationsOptions) ([]*models.Reservation, int, error) {
	reservations := []*models.Reservation{}

	q := svc.db.NewSelect().
		Model(&reservations).
		Relation("Copy").
		Relation("Copy.Book").
		Relation("Borrower").
		Order("r.future_rent ASC", "r.id ASC")

	if opts.BorrowerID != nil {
		q = q.Where("r.borrower_id = ?", *opts.BorrowerID)
	}
	if opts.CopyID != nil {
		q = q.Where("r.copy_id = ?", *opts.CopyID)
	}
	if opts.LiveOnly {
		q = q.Where("r.future_return >= ?", models.Today())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return reservations, total, nil
}

func retrieveCopy(ctx context.Context, tx bun.Tx, id uuid.UUID) (*models.Copy, error) {
	copy := &models.Copy{}
	err := tx.NewSelect().
		Model(copy).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Copy")
		}
		return nil, errors.WithStack(err)
	}
	return copy, nil
}

func borrowerExists(ctx context.Context, tx bun.Tx, id int) error {
	exists, err := tx.NewSelect().
		Model((*models.Borrower)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Borrower")
	}
	return nil
}

func openLoanOnBookExists(ctx context.Context, tx bun.Tx, borrowerID, bookID int) (bool, error) {
	exists, err := tx.NewSelect().
		Model((*models.Loan)(nil)).
		Join("JOIN copies AS c ON c.id = l.copy_id").
		Where("l.borrower_id = ?", borrowerID).
		Where("c.book_id = ?", bookID).
		Where("l.status = ?", models.LoanStatusOpen).
		Exists(ctx)
	return exists, errors.WithStack(err)
}
