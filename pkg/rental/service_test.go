package rental

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kashidashibooks/kashidashi/pkg/config"
	"github.com/kashidashibooks/kashidashi/pkg/errcodes"
	"github.com/kashidashibooks/kashidashi/pkg/migrations"
	"github.com/kashidashibooks/kashidashi/pkg/models"
	"github.com/kashidashibooks/kashidashi/pkg/promoter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return NewService(db, config.NewForTest(), promoter.NewService(db)), db
}

func createTestBorrower(t *testing.T, db *bun.DB, username string) *models.Borrower {
	t.Helper()
	borrower := &models.Borrower{Username: username}
	_, err := db.NewInsert().Model(borrower).Exec(context.Background())
	require.NoError(t, err)
	return borrower
}

func createTestBook(t *testing.T, db *bun.DB, title string) *models.Book {
	t.Helper()
	book := &models.Book{Title: title, Author: "Author"}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
	return book
}

func createTestCopyOf(t *testing.T, db *bun.DB, book *models.Book) *models.Copy {
	t.Helper()
	ctx := context.Background()

	storage := &models.Storage{Name: fmt.Sprintf("shelf-%s-%s", book.Title, uuid.NewString()[:8])}
	_, err := db.NewInsert().Model(storage).Exec(ctx)
	require.NoError(t, err)

	copy := &models.Copy{ID: uuid.New(), BookID: book.ID, StorageID: storage.ID}
	_, err = db.NewInsert().Model(copy).Exec(ctx)
	require.NoError(t, err)
	return copy
}

func createTestCopy(t *testing.T, db *bun.DB, title string) *models.Copy {
	t.Helper()
	return createTestCopyOf(t, db, createTestBook(t, db, title))
}

func createOpenLoan(t *testing.T, db *bun.DB, copyID uuid.UUID, borrowerID int, due time.Time) *models.Loan {
	t.Helper()
	loan := &models.Loan{
		CopyID:     copyID,
		BorrowerID: borrowerID,
		Status:     models.LoanStatusOpen,
		LoanStart:  models.Today(),
		DueDate:    due,
	}
	_, err := db.NewInsert().Model(loan).Exec(context.Background())
	require.NoError(t, err)
	return loan
}

func errCode(err error) string {
	e := &errcodes.Error{}
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func TestService_CreateReservation(t *testing.T) {
	ctx := context.Background()
	today := models.Today()

	t.Run("creates a reservation with normalized dates", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "alice")
		copy := createTestCopy(t, db, "Plain Book")

		reservation, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today.AddDate(0, 0, 2),
			FutureReturn: today.AddDate(0, 0, 9),
		})
		require.NoError(t, err)
		assert.NotZero(t, reservation.ID)
		assert.True(t, today.AddDate(0, 0, 2).Equal(reservation.FutureRent))
		assert.True(t, today.AddDate(0, 0, 9).Equal(reservation.FutureReturn))
	})

	t.Run("unknown copy", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "bob")

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       uuid.New(),
			BorrowerID:   borrower.ID,
			FutureRent:   today,
			FutureReturn: today.AddDate(0, 0, 7),
		})
		assert.Equal(t, "not_found", errCode(err))
	})

	t.Run("unknown borrower", func(t *testing.T) {
		svc, db := setupTestService(t)
		copy := createTestCopy(t, db, "Orphan Book")

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   9999,
			FutureRent:   today,
			FutureReturn: today.AddDate(0, 0, 7),
		})
		assert.Equal(t, "not_found", errCode(err))
	})

	t.Run("start must be before end", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "carol")
		copy := createTestCopy(t, db, "Backwards Book")

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today.AddDate(0, 0, 5),
			FutureReturn: today.AddDate(0, 0, 5),
		})
		assert.Equal(t, "invalid_window", errCode(err))
	})

	t.Run("window longer than the cap", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "dave")
		copy := createTestCopy(t, db, "Long Book")

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today,
			FutureReturn: today.AddDate(0, 0, 15),
		})
		assert.Equal(t, "invalid_window", errCode(err))
	})

	t.Run("window at exactly the cap is allowed", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "eve")
		copy := createTestCopy(t, db, "Exact Book")

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today,
			FutureReturn: today.AddDate(0, 0, 14),
		})
		require.NoError(t, err)
	})

	t.Run("start before the copy frees up", func(t *testing.T) {
		svc, db := setupTestService(t)
		holder := createTestBorrower(t, db, "holder")
		borrower := createTestBorrower(t, db, "frank")
		copy := createTestCopy(t, db, "Busy Book")
		createOpenLoan(t, db, copy.ID, holder.ID, today.AddDate(0, 0, 6))

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today.AddDate(0, 0, 3),
			FutureReturn: today.AddDate(0, 0, 10),
		})
		assert.Equal(t, "invalid_window", errCode(err))

		// Starting after the due date is fine.
		_, err = svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today.AddDate(0, 0, 7),
			FutureReturn: today.AddDate(0, 0, 14),
		})
		require.NoError(t, err)
	})

	t.Run("duplicate on the same copy", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "grace")
		copy := createTestCopy(t, db, "Twice Book")

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today.AddDate(0, 0, 1),
			FutureReturn: today.AddDate(0, 0, 8),
		})
		require.NoError(t, err)

		_, err = svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today.AddDate(0, 0, 20),
			FutureReturn: today.AddDate(0, 0, 27),
		})
		assert.Equal(t, "duplicate_reservation", errCode(err))
	})

	t.Run("duplicate on another copy of the same book", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "heidi")
		book := createTestBook(t, db, "Popular Book")
		copyA := createTestCopyOf(t, db, book)
		copyB := createTestCopyOf(t, db, book)

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copyA.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today.AddDate(0, 0, 1),
			FutureReturn: today.AddDate(0, 0, 8),
		})
		require.NoError(t, err)

		_, err = svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copyB.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today.AddDate(0, 0, 1),
			FutureReturn: today.AddDate(0, 0, 8),
		})
		assert.Equal(t, "duplicate_reservation", errCode(err))
	})

	t.Run("open loan on the same book blocks a reservation", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "ivan")
		book := createTestBook(t, db, "Held Book")
		copyA := createTestCopyOf(t, db, book)
		copyB := createTestCopyOf(t, db, book)
		createOpenLoan(t, db, copyA.ID, borrower.ID, today.AddDate(0, 0, 5))

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copyB.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today,
			FutureReturn: today.AddDate(0, 0, 7),
		})
		assert.Equal(t, "borrower_has_active_loan", errCode(err))
	})
}

func TestService_CancelReservation(t *testing.T) {
	ctx := context.Background()
	today := models.Today()

	svc, db := setupTestService(t)
	borrower := createTestBorrower(t, db, "cancel-alice")
	other := createTestBorrower(t, db, "cancel-bob")
	copy := createTestCopy(t, db, "Cancelable Book")

	reservation, err := svc.CreateReservation(ctx, CreateReservationOptions{
		CopyID:       copy.ID,
		BorrowerID:   borrower.ID,
		FutureRent:   today.AddDate(0, 0, 1),
		FutureReturn: today.AddDate(0, 0, 8),
	})
	require.NoError(t, err)

	t.Run("someone else's cancel is a no-op", func(t *testing.T) {
		require.NoError(t, svc.CancelReservation(ctx, reservation.ID, other.ID))

		exists, err := db.NewSelect().Model((*models.Reservation)(nil)).Where("id = ?", reservation.ID).Exists(ctx)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("deletes the reservation", func(t *testing.T) {
		require.NoError(t, svc.CancelReservation(ctx, reservation.ID, borrower.ID))

		exists, err := db.NewSelect().Model((*models.Reservation)(nil)).Where("id = ?", reservation.ID).Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("cancelling again is idempotent", func(t *testing.T) {
		require.NoError(t, svc.CancelReservation(ctx, reservation.ID, borrower.ID))
	})
}

func TestService_Rent(t *testing.T) {
	ctx := context.Background()
	today := models.Today()

	t.Run("creates an open loan starting today", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "rent-alice")
		copy := createTestCopy(t, db, "Rentable Book")

		loan, err := svc.Rent(ctx, RentOptions{
			CopyID:     copy.ID,
			BorrowerID: borrower.ID,
			DueDate:    today.AddDate(0, 0, 7),
		})
		require.NoError(t, err)
		assert.Equal(t, models.LoanStatusOpen, loan.Status)
		assert.True(t, today.Equal(loan.LoanStart))
		assert.Nil(t, loan.ReturnedOn)
	})

	t.Run("due date must be in the future", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "rent-bob")
		copy := createTestCopy(t, db, "Past Due Book")

		_, err := svc.Rent(ctx, RentOptions{
			CopyID:     copy.ID,
			BorrowerID: borrower.ID,
			DueDate:    today,
		})
		assert.Equal(t, "invalid_window", errCode(err))
	})

	t.Run("enforces the open loan cap", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "rent-carol")

		for i := 0; i < svc.cfg.MaxOpenLoans; i++ {
			copy := createTestCopy(t, db, fmt.Sprintf("Capped Book %d", i))
			createOpenLoan(t, db, copy.ID, borrower.ID, today.AddDate(0, 0, 7))
		}

		copy := createTestCopy(t, db, "One Too Many")
		_, err := svc.Rent(ctx, RentOptions{
			CopyID:     copy.ID,
			BorrowerID: borrower.ID,
			DueDate:    today.AddDate(0, 0, 7),
		})
		assert.Equal(t, "too_many_active_loans", errCode(err))

		// The cap does not apply to reservations.
		_, err = svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   borrower.ID,
			FutureRent:   today.AddDate(0, 0, 1),
			FutureReturn: today.AddDate(0, 0, 8),
		})
		require.NoError(t, err)
	})

	t.Run("copy already on loan", func(t *testing.T) {
		svc, db := setupTestService(t)
		holder := createTestBorrower(t, db, "rent-holder")
		borrower := createTestBorrower(t, db, "rent-dave")
		copy := createTestCopy(t, db, "Taken Book")
		createOpenLoan(t, db, copy.ID, holder.ID, today.AddDate(0, 0, 5))

		_, err := svc.Rent(ctx, RentOptions{
			CopyID:     copy.ID,
			BorrowerID: borrower.ID,
			DueDate:    today.AddDate(0, 0, 7),
		})
		assert.Equal(t, "conflict", errCode(err))
	})

	t.Run("overlapping reservation blocks the rental", func(t *testing.T) {
		svc, db := setupTestService(t)
		reserver := createTestBorrower(t, db, "rent-reserver")
		borrower := createTestBorrower(t, db, "rent-eve")
		copy := createTestCopy(t, db, "Promised Book")

		_, err := svc.CreateReservation(ctx, CreateReservationOptions{
			CopyID:       copy.ID,
			BorrowerID:   reserver.ID,
			FutureRent:   today.AddDate(0, 0, 3),
			FutureReturn: today.AddDate(0, 0, 10),
		})
		require.NoError(t, err)

		_, err = svc.Rent(ctx, RentOptions{
			CopyID:     copy.ID,
			BorrowerID: borrower.ID,
			DueDate:    today.AddDate(0, 0, 7),
		})
		assert.Equal(t, "reservation_conflict", errCode(err))
	})

	t.Run("loan on the same book blocks another copy", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "rent-frank")
		book := createTestBook(t, db, "Single Hold Book")
		copyA := createTestCopyOf(t, db, book)
		copyB := createTestCopyOf(t, db, book)
		createOpenLoan(t, db, copyA.ID, borrower.ID, today.AddDate(0, 0, 5))

		_, err := svc.Rent(ctx, RentOptions{
			CopyID:     copyB.ID,
			BorrowerID: borrower.ID,
			DueDate:    today.AddDate(0, 0, 7),
		})
		assert.Equal(t, "borrower_has_active_loan", errCode(err))
	})
}

func TestService_Return(t *testing.T) {
	ctx := context.Background()
	today := models.Today()

	t.Run("marks the loan returned", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "return-alice")
		copy := createTestCopy(t, db, "Returnable Book")
		loan := createOpenLoan(t, db, copy.ID, borrower.ID, today.AddDate(0, 0, 7))

		returned, err := svc.Return(ctx, ReturnOptions{
			LoanID:     loan.ID,
			BorrowerID: borrower.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.LoanStatusReturned, returned.Status)
		require.NotNil(t, returned.ReturnedOn)
		assert.True(t, today.Equal(*returned.ReturnedOn))
	})

	t.Run("returning twice fails", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "return-bob")
		copy := createTestCopy(t, db, "Once Book")
		loan := createOpenLoan(t, db, copy.ID, borrower.ID, today.AddDate(0, 0, 7))

		_, err := svc.Return(ctx, ReturnOptions{LoanID: loan.ID, BorrowerID: borrower.ID})
		require.NoError(t, err)

		_, err = svc.Return(ctx, ReturnOptions{LoanID: loan.ID, BorrowerID: borrower.ID})
		assert.Equal(t, "validation_error", errCode(err))
	})

	t.Run("someone else's loan reads as not found", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "return-carol")
		other := createTestBorrower(t, db, "return-dave")
		copy := createTestCopy(t, db, "Private Book")
		loan := createOpenLoan(t, db, copy.ID, borrower.ID, today.AddDate(0, 0, 7))

		_, err := svc.Return(ctx, ReturnOptions{LoanID: loan.ID, BorrowerID: other.ID})
		assert.Equal(t, "not_found", errCode(err))
	})

	t.Run("records a review and updates it on a later return", func(t *testing.T) {
		svc, db := setupTestService(t)
		borrower := createTestBorrower(t, db, "return-eve")
		book := createTestBook(t, db, "Reviewed Book")
		copy := createTestCopyOf(t, db, book)
		loan := createOpenLoan(t, db, copy.ID, borrower.ID, today.AddDate(0, 0, 7))

		_, err := svc.Return(ctx, ReturnOptions{
			LoanID:     loan.ID,
			BorrowerID: borrower.ID,
			Review:     &ReviewInput{Score: 3, Title: "Fine", Body: "It was fine."},
		})
		require.NoError(t, err)

		review := &models.Review{}
		err = db.NewSelect().Model(review).Where("v.book_id = ?", book.ID).Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, review.Score)

		// A second loan of the same book updates the review in place.
		loan2 := createOpenLoan(t, db, copy.ID, borrower.ID, today.AddDate(0, 0, 7))
		_, err = svc.Return(ctx, ReturnOptions{
			LoanID:     loan2.ID,
			BorrowerID: borrower.ID,
			Review:     &ReviewInput{Score: 5, Title: "Better", Body: "Grew on me."},
		})
		require.NoError(t, err)

		reviews := []*models.Review{}
		err = db.NewSelect().Model(&reviews).Where("v.book_id = ?", book.ID).Scan(ctx)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, 5, reviews[0].Score)
		assert.Equal(t, "Better", reviews[0].Title)
	})

	t.Run("promotes the earliest waiting reservation", func(t *testing.T) {
		svc, db := setupTestService(t)
		holder := createTestBorrower(t, db, "return-holder")
		waiter := createTestBorrower(t, db, "return-waiter")
		copy := createTestCopy(t, db, "Awaited Book")
		loan := createOpenLoan(t, db, copy.ID, holder.ID, today.AddDate(0, 0, 7))

		end := today.AddDate(0, 0, 6)
		reservation := &models.Reservation{
			CopyID:       copy.ID,
			BorrowerID:   waiter.ID,
			FutureRent:   today.AddDate(0, 0, -1),
			FutureReturn: end,
		}
		_, err := db.NewInsert().Model(reservation).Exec(ctx)
		require.NoError(t, err)

		_, err = svc.Return(ctx, ReturnOptions{LoanID: loan.ID, BorrowerID: holder.ID})
		require.NoError(t, err)

		// The waiting reservation became a loan starting on the return date.
		newLoan := &models.Loan{}
		err = db.NewSelect().
			Model(newLoan).
			Where("l.copy_id = ?", copy.ID).
			Where("l.status = ?", models.LoanStatusOpen).
			Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, waiter.ID, newLoan.BorrowerID)
		assert.True(t, today.Equal(newLoan.LoanStart))
		assert.True(t, end.Equal(newLoan.DueDate))

		exists, err := db.NewSelect().Model((*models.Reservation)(nil)).Where("id = ?", reservation.ID).Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("leaves future reservations alone on return", func(t *testing.T) {
		svc, db := setupTestService(t)
		holder := createTestBorrower(t, db, "return-frank")
		waiter := createTestBorrower(t, db, "return-grace")
		copy := createTestCopy(t, db, "Not Yet Book")
		loan := createOpenLoan(t, db, copy.ID, holder.ID, today.AddDate(0, 0, 7))

		reservation := &models.Reservation{
			CopyID:       copy.ID,
			BorrowerID:   waiter.ID,
			FutureRent:   today.AddDate(0, 0, 3),
			FutureReturn: today.AddDate(0, 0, 10),
		}
		_, err := db.NewInsert().Model(reservation).Exec(ctx)
		require.NoError(t, err)

		_, err = svc.Return(ctx, ReturnOptions{LoanID: loan.ID, BorrowerID: holder.ID})
		require.NoError(t, err)

		open, err := db.NewSelect().
			Model((*models.Loan)(nil)).
			Where("l.copy_id = ?", copy.ID).
			Where("l.status = ?", models.LoanStatusOpen).
			Exists(ctx)
		require.NoError(t, err)
		assert.False(t, open)
	})
}

func TestService_ListLoans(t *testing.T) {
	ctx := context.Background()
	today := models.Today()

	svc, db := setupTestService(t)
	borrower := createTestBorrower(t, db, "list-alice")
	other := createTestBorrower(t, db, "list-bob")

	copyA := createTestCopy(t, db, "List Book A")
	copyB := createTestCopy(t, db, "List Book B")
	createOpenLoan(t, db, copyA.ID, borrower.ID, today.AddDate(0, 0, -2))
	createOpenLoan(t, db, copyB.ID, other.ID, today.AddDate(0, 0, 7))

	t.Run("filters by borrower", func(t *testing.T) {
		loans, total, err := svc.ListLoans(ctx, ListLoansOptions{BorrowerID: &borrower.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, loans, 1)
		assert.Equal(t, borrower.ID, loans[0].BorrowerID)
		require.NotNil(t, loans[0].Copy)
	})

	t.Run("filters overdue loans", func(t *testing.T) {
		loans, total, err := svc.ListLoans(ctx, ListLoansOptions{Overdue: true})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, loans, 1)
		assert.Equal(t, borrower.ID, loans[0].BorrowerID)
	})
}

func TestService_ListReservations(t *testing.T) {
	ctx := context.Background()
	today := models.Today()

	svc, db := setupTestService(t)
	alice := createTestBorrower(t, db, "res-alice")
	bob := createTestBorrower(t, db, "res-bob")
	copy := createTestCopy(t, db, "Queue Book")

	second := &models.Reservation{CopyID: copy.ID, BorrowerID: bob.ID, FutureRent: today.AddDate(0, 0, 5), FutureReturn: today.AddDate(0, 0, 12)}
	_, err := db.NewInsert().Model(second).Exec(ctx)
	require.NoError(t, err)
	first := &models.Reservation{CopyID: copy.ID, BorrowerID: alice.ID, FutureRent: today.AddDate(0, 0, 1), FutureReturn: today.AddDate(0, 0, 4)}
	_, err = db.NewInsert().Model(first).Exec(ctx)
	require.NoError(t, err)

	t.Run("orders by promotion priority", func(t *testing.T) {
		reservations, total, err := svc.ListReservations(ctx, ListReservationsOptions{CopyID: &copy.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, reservations, 2)
		assert.Equal(t, alice.ID, reservations[0].BorrowerID)
		assert.Equal(t, bob.ID, reservations[1].BorrowerID)
	})
}
