package services

import (
	"errors"
	"time"

	"github.com/otienobrian/fundi_connect/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpsertEarning creates or updates the single ledger entry for a job
// assignment. Safe to re-apply: replaying the same status transition never
// creates a duplicate entry or doubles income.
//
// A non-positive amount is a no-op (nothing to pay). An entry that has
// already been paid out keeps its status and payout reference forever; only
// the amount is reconciled so the audit trail stays accurate.
func UpsertEarning(db *gorm.DB, assignmentID, fundiID uuid.UUID, amountCents int64, targetStatus string, availableAt, paidOutAt *time.Time) error {
	if amountCents <= 0 {
		return nil
	}

	var earning models.Earning
	err := db.Where("job_assignment_id = ?", assignmentID).First(&earning).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		earning = models.Earning{
			FundiID:         fundiID,
			JobAssignmentID: assignmentID,
			AmountCents:     amountCents,
			Status:          targetStatus,
			AvailableAt:     availableAt,
			PaidOutAt:       paidOutAt,
		}
		return db.Create(&earning).Error
	}

	if earning.Status == models.EarningStatusPaidOut {
		if earning.AmountCents != amountCents {
			return db.Model(&earning).Update("amount_cents", amountCents).Error
		}
		return nil
	}

	earning.AmountCents = amountCents
	earning.Status = targetStatus
	earning.AvailableAt = availableAt
	if targetStatus == models.EarningStatusPaidOut {
		earning.PaidOutAt = paidOutAt
	} else {
		earning.PaidOutAt = nil
	}
	return db.Save(&earning).Error
}
