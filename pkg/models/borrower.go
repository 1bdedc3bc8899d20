package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Borrower is a party that can hold loans and reservations. Credentials and
// account management live outside this system.
type Borrower struct {
	bun.BaseModel `bun:"table:borrowers,alias:w"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `bun:",nullzero" json:"username"`
}
