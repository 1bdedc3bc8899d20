package promoter

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kashidashibooks/kashidashi/pkg/database"
	"github.com/kashidashibooks/kashidashi/pkg/errcodes"
	"github.com/kashidashibooks/kashidashi/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Outcome of a single promotion attempt.
const (
	OutcomeConverted = "converted"
	OutcomeWaiting   = "waiting"
	OutcomeCleaned   = "cleaned"
	OutcomeSkipped   = "skipped"
	OutcomeNone      = "none"
)

// Service converts due reservations into loans. Each reservation is
// processed in its own transaction so one failure never aborts the batch.
type Service struct {
	db  *bun.DB
	log logger.Logger

	sweeping atomic.Bool
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, log: logger.New()}
}

// RunSweep processes every reservation whose start date has arrived and
// records the outcome as a PromotionRun. At most one sweep runs at a time;
// an overlapping invocation gets errcodes.SweepAlreadyRunning.
func (svc *Service) RunSweep(ctx context.Context, trigger string) (*models.PromotionRun, error) {
	if !svc.sweeping.CompareAndSwap(false, true) {
		return nil, errcodes.SweepAlreadyRunning()
	}
	defer svc.sweeping.Store(false)

	today := models.Today()
	run := &models.PromotionRun{
		TriggeredBy: trigger,
		StartedAt:   time.Now(),
	}

	// Only ids are fetched up front; each reservation is re-read under its
	// own lock, so a stale listing is harmless.
	var ids []int
	err := svc.db.NewSelect().
		Model((*models.Reservation)(nil)).
		Column("id").
		Where("future_rent <= ?", today).
		Order("future_rent ASC", "id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, id := range ids {
		outcome, err := svc.promoteReservation(ctx, id, today)
		if err != nil {
			run.Errors++
			svc.log.Err(err).Error("promotion error", logger.Data{"reservation_id": id})
			continue
		}
		switch outcome {
		case OutcomeConverted:
			run.Converted++
		case OutcomeWaiting:
			run.Waiting++
		case OutcomeCleaned:
			run.Cleaned++
		}
	}

	run.FinishedAt = time.Now()
	_, err = svc.db.NewInsert().Model(run).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	svc.log.Info("sweep complete", logger.Data{
		"trigger":   trigger,
		"converted": run.Converted,
		"waiting":   run.Waiting,
		"cleaned":   run.Cleaned,
		"errors":    run.Errors,
	})

	return run, nil
}

// PromoteNext attempts to promote the earliest due reservation for one copy.
// It is the return hook: when a loan comes back, exactly the first eligible
// reservation is evaluated; the rest wait for the next sweep or return.
func (svc *Service) PromoteNext(ctx context.Context, copyID uuid.UUID) (string, error) {
	today := models.Today()

	var ids []int
	err := svc.db.NewSelect().
		Model((*models.Reservation)(nil)).
		Column("id").
		Where("copy_id = ?", copyID).
		Where("future_rent <= ?", today).
		Order("future_rent ASC", "id ASC").
		Limit(1).
		Scan(ctx, &ids)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if len(ids) == 0 {
		return OutcomeNone, nil
	}

	return svc.promoteReservation(ctx, ids[0], today)
}

// promoteReservation runs the per-reservation state machine in its own
// transaction. The partial unique index on open loans is the final arbiter:
// losing that race is reported as OutcomeWaiting, not an error, and the
// reservation stays for the next sweep.
func (svc *Service) promoteReservation(ctx context.Context, id int, today time.Time) (string, error) {
	outcome := OutcomeSkipped

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// Pessimistic lock by primary key. SQLite has no SELECT FOR UPDATE;
		// a self-update escalates this transaction to the write lock and
		// reports whether the row still exists.
		res, err := tx.NewUpdate().
			Model((*models.Reservation)(nil)).
			Set("id = id").
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			// Cancelled or promoted by a concurrent attempt.
			outcome = OutcomeSkipped
			return nil
		}

		reservation := &models.Reservation{}
		err = tx.NewSelect().
			Model(reservation).
			Where("r.id = ?", id).
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if !reservation.Due(today) {
			outcome = OutcomeSkipped
			return nil
		}

		loan := &models.Loan{}
		err = tx.NewSelect().
			Model(loan).
			Where("l.copy_id = ?", reservation.CopyID).
			Where("l.status = ?", models.LoanStatusOpen).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return errors.WithStack(err)
		}
		if err == nil {
			if loan.BorrowerID == reservation.BorrowerID {
				// The borrower already holds this copy; the reservation is a
				// leftover. Delete it and move on.
				_, err = tx.NewDelete().Model(reservation).WherePK().Exec(ctx)
				if err != nil {
					return errors.WithStack(err)
				}
				outcome = OutcomeCleaned
				return nil
			}
			outcome = OutcomeWaiting
			return nil
		}

		now := time.Now()
		newLoan := &models.Loan{
			CreatedAt:  now,
			UpdatedAt:  now,
			CopyID:     reservation.CopyID,
			BorrowerID: reservation.BorrowerID,
			Status:     models.LoanStatusOpen,
			LoanStart:  today,
			DueDate:    reservation.FutureReturn,
		}
		_, err = tx.NewInsert().Model(newLoan).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().Model(reservation).WherePK().Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		outcome = OutcomeConverted
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			svc.log.Warn("concurrent promotion conflict", logger.Data{"reservation_id": id})
			return OutcomeWaiting, nil
		}
		return "", err
	}

	return outcome, nil
}

// ListRunsOptions contains options for listing promotion runs.
type ListRunsOptions struct {
	Limit  int
	Offset int
}

// ListRuns returns past promotion runs, newest first.
func (svc *Service) ListRuns(ctx context.Context, opts ListRunsOptions) ([]*models.PromotionRun, int, error) {
	runs := []*models.PromotionRun{}

	q := svc.db.NewSelect().
		Model(&runs).
		Order("pr.id DESC")

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

	return runs, total, nil
}
