package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Reservation holds a copy for a borrower over the half-open window
// [future_rent, future_return). Promotion converts it into a loan and deletes
// it in the same transaction.
type Reservation struct {
	bun.BaseModel `bun:"table:reservations,alias:r"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	CopyID       uuid.UUID `bun:"copy_id,type:uuid" json:"copy_id"`
	Copy         *Copy     `bun:"rel:belongs-to,join:copy_id=id" json:"copy,omitempty"`
	BorrowerID   int       `bun:",nullzero" json:"borrower_id"`
	Borrower     *Borrower `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
	FutureRent   time.Time `json:"future_rent"`
	FutureReturn time.Time `json:"future_return"`
}

// Live reports whether the reservation's window has not yet fully passed.
func (r *Reservation) Live(asOf time.Time) bool {
	return !r.FutureReturn.Before(DateOf(asOf))
}

// Due reports whether the reservation's start date has arrived.
func (r *Reservation) Due(asOf time.Time) bool {
	return !r.FutureRent.After(DateOf(asOf))
}

// Overlaps reports whether the reservation's window intersects the half-open
// window [start, end).
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.FutureRent.Before(end) && r.FutureReturn.After(start)
}
