package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Storage is a physical shelf location. Every copy lives in exactly one.
type Storage struct {
	bun.BaseModel `bun:"table:storages,alias:s"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
}
