package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EarningStatusPending   = "pending"
	EarningStatusAvailable = "available"
	EarningStatusPaidOut   = "paid_out"
)

// Earning is one ledger line of compensation owed to a fundi, tied to
// exactly one job assignment. Once paid_out it is terminal: the status and
// payout reference never change again.
type Earning struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FundiID         uuid.UUID `gorm:"not null" json:"fundi_id"`
	JobAssignmentID uuid.UUID `gorm:"not null;unique" json:"job_assignment_id"`

	AmountCents int64  `gorm:"not null" json:"amount_cents"`
	Status      string `gorm:"size:20;not null;default:'pending'" json:"status"`

	AvailableAt *time.Time `json:"available_at"`
	PaidOutAt   *time.Time `json:"paid_out_at"`
	PayoutID    *uuid.UUID `gorm:"index" json:"payout_id"`

	JobAssignment JobAssignment `gorm:"foreignkey:JobAssignmentID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
