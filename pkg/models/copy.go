package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Copy is a physical instance of a Book, the unit of lending. Copies get
// their own UUID namespace so that copy ids can never be confused with the
// integer book ids.
type Copy struct {
	bun.BaseModel `bun:"table:copies,alias:c"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	BookID    int       `bun:",nullzero" json:"book_id"`
	Book      *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	StorageID int       `bun:",nullzero" json:"storage_id"`
	Storage   *Storage  `bun:"rel:belongs-to,join:storage_id=id" json:"storage,omitempty"`
}
