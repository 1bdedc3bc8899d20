package availability

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/kashidashibooks/kashidashi/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const (
	StateAvailable = "available"
	StateOnLoan    = "on_loan"
	StateReserved  = "reserved"
)

// Window is a half-open date range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Availability describes what stands between a borrower and a copy on a given
// date. Borrower, DueDate, and Window are only set for the states that carry
// them.
type Availability struct {
	State    string           `json:"state"`
	Borrower *models.Borrower `json:"borrower,omitempty"`
	DueDate  *time.Time       `json:"due_date,omitempty"`
	Window   *Window          `json:"window,omitempty"`
}

// Service answers availability questions for copies. It deliberately takes a
// bun.IDB so the same queries run standalone or inside a caller's
// transaction.
type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// Check reports the state of a copy on the given date from the perspective of
// the given borrower. The borrower's own open loan or covering reservation
// does not block them, so a promotion or rental for that borrower can
// proceed.
func (svc *Service) Check(ctx context.Context, copyID uuid.UUID, borrowerID int, asOf time.Time) (*Availability, error) {
	asOf = models.DateOf(asOf)

	loan := &models.Loan{}
	err := svc.db.NewSelect().
		Model(loan).
		Relation("Borrower").
		Where("l.copy_id = ?", copyID).
		Where("l.status = ?", models.LoanStatusOpen).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}
	if err == nil && loan.BorrowerID != borrowerID {
		due := loan.DueDate
		return &Availability{
			State:    StateOnLoan,
			Borrower: loan.Borrower,
			DueDate:  &due,
		}, nil
	}

	reservation := &models.Reservation{}
	err = svc.db.NewSelect().
		Model(reservation).
		Relation("Borrower").
		Where("r.copy_id = ?", copyID).
		Where("r.borrower_id != ?", borrowerID).
		Where("r.future_rent <= ?", asOf).
		Where("r.future_return > ?", asOf).
		Order("r.future_rent ASC", "r.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}
	if err == nil {
		return &Availability{
			State:    StateReserved,
			Borrower: reservation.Borrower,
			Window: &Window{
				Start: reservation.FutureRent,
				End:   reservation.FutureReturn,
			},
		}, nil
	}

	return &Availability{State: StateAvailable}, nil
}

// EarliestAvailableDate returns the first date on which a new reservation on
// the copy may start: the day after the latest open-loan due date, the day
// after the latest live reservation ends, or the reference date, whichever is
// latest.
func (svc *Service) EarliestAvailableDate(ctx context.Context, copyID uuid.UUID, asOf time.Time) (time.Time, error) {
	earliest := models.DateOf(asOf)

	loan := &models.Loan{}
	err := svc.db.NewSelect().
		Model(loan).
		Column("due_date").
		Where("l.copy_id = ?", copyID).
		Where("l.status = ?", models.LoanStatusOpen).
		Order("l.due_date DESC").
		Limit(1).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, errors.WithStack(err)
	}
	if err == nil {
		if d := loan.DueDate.AddDate(0, 0, 1); d.After(earliest) {
			earliest = d
		}
	}

	reservation := &models.Reservation{}
	err = svc.db.NewSelect().
		Model(reservation).
		Column("future_return").
		Where("r.copy_id = ?", copyID).
		Where("r.future_return >= ?", models.DateOf(asOf)).
		Order("r.future_return DESC").
		Limit(1).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, errors.WithStack(err)
	}
	if err == nil {
		if d := reservation.FutureReturn.AddDate(0, 0, 1); d.After(earliest) {
			earliest = d
		}
	}

	return earliest, nil
}
