package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	PromotionTriggerSweep  = "sweep"
	PromotionTriggerManual = "manual"
)

// PromotionRun records the outcome of one promotion sweep: how many due
// reservations were converted into loans, how many are still waiting on a
// copy, how many were cleaned up as duplicates, and how many failed.
type PromotionRun struct {
	bun.BaseModel `bun:"table:promotion_runs,alias:pr"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	TriggeredBy string    `bun:"triggered_by,nullzero" json:"triggered_by"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Converted   int       `json:"converted"`
	Waiting     int       `json:"waiting"`
	Cleaned     int       `json:"cleaned"`
	Errors      int       `json:"errors"`
}
