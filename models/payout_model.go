package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
)

// Payout is one instant cash-out batch. The row is created in "processing"
// before the provider is called so every attempt leaves an audit record,
// then finalized to completed or failed. Never deleted.
type Payout struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FundiID uuid.UUID `gorm:"not null;index" json:"fundi_id"`

	GrossCents   int64 `gorm:"not null" json:"gross_cents"`
	FeeCents     int64 `gorm:"not null" json:"fee_cents"`
	NetCents     int64 `gorm:"not null" json:"net_cents"`
	EarningCount int   `gorm:"not null" json:"earning_count"`

	Status        string  `gorm:"size:20;not null;default:'processing'" json:"status"`
	TransferID    *string `gorm:"size:255" json:"transfer_id"`
	FailureReason *string `gorm:"type:text" json:"failure_reason"`

	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
