package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ISBN        *string   `json:"isbn"`
	Title       string    `bun:",nullzero" json:"title"`
	Author      string    `bun:",nullzero" json:"author"`
	PublishDate string    `json:"publish_date"`
	Subject     *string   `json:"subject"`
	CoverURL    *string   `json:"cover_url"`
	Copies      []*Copy   `bun:"rel:has-many,join:id=book_id" json:"copies,omitempty"`
}
