package models

import (
	"time"

	"github.com/google/uuid"
)

// JobAssignment is the fundi-facing counterpart of a ServiceRequest. At most
// one assignment exists per request, and its status is derived from the
// request's status, never set directly by a client.
type JobAssignment struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceRequestID uuid.UUID `gorm:"not null;unique" json:"service_request_id"`
	FundiID          uuid.UUID `gorm:"not null" json:"fundi_id"`

	Status      string `gorm:"size:30;not null;default:'assigned'" json:"status"`
	PayoutCents int64  `gorm:"not null" json:"payout_cents"`

	AssignedAt   time.Time  `gorm:"not null" json:"assigned_at"`
	StartedAt    *time.Time `json:"started_at"`
	CheckedOutAt *time.Time `json:"checked_out_at"`
	VerifiedAt   *time.Time `json:"verified_at"`
	PaidAt       *time.Time `json:"paid_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	CancellationReason *string `gorm:"type:text" json:"cancellation_reason"`

	ServiceRequest ServiceRequest `gorm:"foreignkey:ServiceRequestID" json:"service_request,omitempty"`
	Fundi          User           `gorm:"foreignkey:FundiID" json:"fundi,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
