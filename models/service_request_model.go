package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceRequest is the customer-facing booking for a job. It is never
// deleted; cancellation and completion are terminal statuses.
type ServiceRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Reference  string    `gorm:"size:12;not null;unique" json:"reference"`
	CustomerID uuid.UUID `gorm:"not null" json:"customer_id"`
	CategoryID uuid.UUID `gorm:"not null" json:"category_id"`

	Status  string  `gorm:"size:30;not null;default:'pending'" json:"status"`
	Details *string `gorm:"type:text" json:"details"`
	Address string  `gorm:"size:255;not null" json:"address"`

	// ScheduledAt is the exact agreed time when one exists; ScheduledDate is
	// the fallback "some time that day" booking (YYYY-MM-DD).
	ScheduledAt   *time.Time `json:"scheduled_at"`
	ScheduledDate *string    `gorm:"size:10" json:"scheduled_date"`

	TotalCents int64  `gorm:"not null" json:"total_cents"`
	Currency   string `gorm:"size:3;not null;default:'USD'" json:"currency"`

	CancellationReason   *string    `gorm:"type:text" json:"cancellation_reason"`
	CancellationFeeCents int64      `gorm:"default:0" json:"cancellation_fee_cents"`
	CancelledAt          *time.Time `json:"cancelled_at"`

	Customer User            `gorm:"foreignkey:CustomerID" json:"customer,omitempty"`
	Category ServiceCategory `gorm:"foreignkey:CategoryID" json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
