package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/otienobrian/fundi_connect/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending             = "pending"
	StatusInProgress          = "in_progress"
	StatusPendingVerification = "pending_verification"
	StatusVerified            = "verified"
	StatusPaid                = "paid"
	StatusCompleted           = "completed"
	StatusCancelled           = "cancelled"
)

var ErrRequestNotFound = errors.New("service request not found")

// CanonicalStatus normalizes a free-form status token once, at the boundary.
// "completed", "complete" and "done" all mean completion; "paid" stays paid.
// Unknown tokens pass through verbatim (known is false) so statuses without
// lifecycle side effects still round-trip.
func CanonicalStatus(token string) (status string, known bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	switch t {
	case "completed", "complete", "done":
		return StatusCompleted, true
	case StatusPending, StatusInProgress, StatusPendingVerification,
		StatusVerified, StatusPaid, StatusCancelled:
		return t, true
	default:
		return t, false
	}
}

// StatusUpdate carries optional request fields applied together with a
// status change.
type StatusUpdate struct {
	Details     *string
	ScheduledAt *time.Time
	TotalCents  *int64
}

// ApplyStatusChange writes a new status onto a service request and mirrors
// it into the request's job assignment and, for verified/paid/completed,
// the fundi's earnings ledger.
//
// The three writes are deliberately sequential, not one transaction: the
// request is the system of record, and the assignment is only touched after
// the request update succeeds, the ledger only after the assignment. A crash
// mid-sequence leaves an earlier consistent state. A mirror failure is
// returned to the caller but the request's own update stands.
//
// Requests without an assignment are updated with no mirrored side effect.
func ApplyStatusChange(db *gorm.DB, requestID uuid.UUID, statusToken string, update *StatusUpdate, now time.Time) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	if err := db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	status, _ := CanonicalStatus(statusToken)
	request.Status = status
	if update != nil {
		if update.Details != nil {
			request.Details = update.Details
		}
		if update.ScheduledAt != nil {
			request.ScheduledAt = update.ScheduledAt
		}
		if update.TotalCents != nil {
			request.TotalCents = *update.TotalCents
		}
	}
	if err := db.Save(&request).Error; err != nil {
		return nil, err
	}

	var assignment models.JobAssignment
	err := db.Where("service_request_id = ?", request.ID).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &request, nil
		}
		return &request, fmt.Errorf("assignment lookup failed: %w", err)
	}

	var ledgerStatus string
	switch status {
	case StatusInProgress:
		assignment.Status = StatusInProgress
	case StatusPendingVerification:
		assignment.Status = StatusPendingVerification
		if assignment.CheckedOutAt == nil {
			assignment.CheckedOutAt = &now
		}
	case StatusVerified:
		assignment.Status = StatusVerified
		if assignment.VerifiedAt == nil {
			assignment.VerifiedAt = &now
		}
		ledgerStatus = models.EarningStatusAvailable
	case StatusPaid, StatusCompleted:
		// Milestones are monotonic: set once, never rewound on replay.
		assignment.Status = status
		if assignment.VerifiedAt == nil {
			assignment.VerifiedAt = &now
		}
		if assignment.PaidAt == nil {
			assignment.PaidAt = &now
		}
		if assignment.CompletedAt == nil {
			assignment.CompletedAt = &now
		}
		ledgerStatus = models.EarningStatusPaidOut
	default:
		assignment.Status = status
	}

	if err := db.Save(&assignment).Error; err != nil {
		return &request, fmt.Errorf("failed to mirror status onto assignment: %w", err)
	}

	switch ledgerStatus {
	case models.EarningStatusAvailable:
		if err := UpsertEarning(db, assignment.ID, assignment.FundiID, assignment.PayoutCents, ledgerStatus, &now, nil); err != nil {
			return &request, fmt.Errorf("failed to update earnings ledger: %w", err)
		}
	case models.EarningStatusPaidOut:
		if err := UpsertEarning(db, assignment.ID, assignment.FundiID, assignment.PayoutCents, ledgerStatus, &now, &now); err != nil {
			return &request, fmt.Errorf("failed to update earnings ledger: %w", err)
		}
	}

	return &request, nil
}
