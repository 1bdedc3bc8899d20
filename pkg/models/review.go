package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Review is one borrower's rating of a book. There is at most one per
// (book, borrower) pair; it is created or updated only when a loan is
// returned.
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:v"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	BookID     int       `bun:",nullzero" json:"book_id"`
	Book       *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	BorrowerID int       `bun:",nullzero" json:"borrower_id"`
	Borrower   *Borrower `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
	Score      int       `bun:",nullzero" json:"score"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	ReviewedOn time.Time `json:"reviewed_on"`
}
