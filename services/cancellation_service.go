package services

import (
	"errors"
	"log"
	"time"

	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotRequestOwner = errors.New("caller does not own this request")
	ErrAlreadyTerminal = errors.New("request is already cancelled or completed")
)

const (
	RefundNotAttempted = "not_attempted"
	RefundSkipped      = "skipped"
	RefundSucceeded    = "succeeded"
	RefundFailed       = "failed"
)

type CancelResult struct {
	Status      string    `json:"status"`
	FeeCents    int64     `json:"fee_cents"`
	CancelledAt time.Time `json:"cancelled_at"`
	Refund      string    `json:"refund"`
	RefundCents int64     `json:"refund_cents"`
}

// CancelRequest terminalizes a service request, charges the time-based
// cancellation fee and refunds the remainder of any charge on file.
//
// Cancellation is the primary effect: the request is marked cancelled
// unconditionally before the refund is attempted, and a refund failure is
// recorded on the payment but never rolls the cancellation back.
func CancelRequest(db *gorm.DB, refunds payments.RefundClient, schedule FeeSchedule, requestID, callerID uuid.UUID, isAdmin bool, reason string, now time.Time) (*CancelResult, error) {
	var request models.ServiceRequest
	if err := db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !isAdmin && request.CustomerID != callerID {
		return nil, ErrNotRequestOwner
	}

	switch request.Status {
	case StatusCancelled, StatusCompleted, StatusPaid:
		return nil, ErrAlreadyTerminal
	}

	feeCents := schedule.CancellationFee(now, &request)

	request.Status = StatusCancelled
	request.CancellationReason = &reason
	request.CancellationFeeCents = feeCents
	request.CancelledAt = &now
	if err := db.Save(&request).Error; err != nil {
		return nil, err
	}

	// Mirror onto the assignment, if one exists. Failure here is logged but
	// does not undo the cancellation.
	var assignment models.JobAssignment
	err := db.Where("service_request_id = ?", request.ID).First(&assignment).Error
	if err == nil {
		assignment.Status = StatusCancelled
		assignment.CancellationReason = &reason
		if err := db.Save(&assignment).Error; err != nil {
			log.Printf("🔥 Failed to mirror cancellation onto assignment %s: %v", assignment.ID, err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("🔥 Assignment lookup failed while cancelling request %s: %v", request.ID, err)
	}

	result := &CancelResult{
		Status:      StatusCancelled,
		FeeCents:    feeCents,
		CancelledAt: now,
		Refund:      RefundNotAttempted,
	}

	var payment models.Payment
	err = db.Where("service_request_id = ? AND status = ?", request.ID, "succeeded").First(&payment).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("🔥 Payment lookup failed while cancelling request %s: %v", request.ID, err)
		}
		return result, nil
	}

	refundCents := payment.AmountCents - feeCents
	if refundCents <= 0 {
		result.Refund = RefundSkipped
		recordRefund(db, &payment, RefundSkipped, reason, 0)
		return result, nil
	}

	if payment.ProviderTxnID == nil {
		result.Refund = RefundFailed
		recordRefund(db, &payment, RefundFailed, "no provider transaction on file", 0)
		return result, nil
	}

	if _, err := refunds.CreateRefund(*payment.ProviderTxnID, refundCents); err != nil {
		log.Printf("🔥 Refund of %d cents for request %s failed: %v", refundCents, request.ID, err)
		result.Refund = RefundFailed
		recordRefund(db, &payment, RefundFailed, err.Error(), 0)
		return result, nil
	}

	result.Refund = RefundSucceeded
	result.RefundCents = refundCents
	recordRefund(db, &payment, RefundSucceeded, reason, refundCents)
	return result, nil
}

func recordRefund(db *gorm.DB, payment *models.Payment, status, reason string, refundCents int64) {
	payment.RefundStatus = &status
	payment.RefundReason = &reason
	payment.RefundCents = refundCents
	if err := db.Save(payment).Error; err != nil {
		log.Printf("🔥 Failed to record refund outcome on payment %s: %v", payment.ID, err)
	}
}
