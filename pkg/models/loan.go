package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	LoanStatusOpen     = "open"
	LoanStatusReturned = "returned"
)

// Loan binds a copy to a borrower. Status is an explicit variant rather than
// a nullable return date; the "at most one open loan per copy" invariant is a
// partial unique index on (copy_id) WHERE status = 'open', so the database is
// the final arbiter under concurrent promotion attempts.
type Loan struct {
	bun.BaseModel `bun:"table:loans,alias:l"`

	ID         int        `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	CopyID     uuid.UUID  `bun:"copy_id,type:uuid" json:"copy_id"`
	Copy       *Copy      `bun:"rel:belongs-to,join:copy_id=id" json:"copy,omitempty"`
	BorrowerID int        `bun:",nullzero" json:"borrower_id"`
	Borrower   *Borrower  `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
	Status     string     `bun:",nullzero" json:"status"`
	LoanStart  time.Time  `json:"loan_start"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedOn *time.Time `json:"returned_on,omitempty"`
}

func (l *Loan) Open() bool {
	return l.Status == LoanStatusOpen
}

// Overdue reports whether the loan is open and its due date has passed as of
// the given date.
func (l *Loan) Overdue(asOf time.Time) bool {
	return l.Open() && l.DueDate.Before(DateOf(asOf))
}
