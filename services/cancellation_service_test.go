package services

import (
	"errors"
	"testing"
	"time"

	"github.com/otienobrian/fundi_connect/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubRefundClient struct {
	refunds []int64
	err     error
}

func (s *stubRefundClient) CreateRefund(providerTxnID string, amountCents int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.refunds = append(s.refunds, amountCents)
	return "re_1", nil
}

func createSucceededPayment(t *testing.T, db *gorm.DB, requestID uuid.UUID, amountCents int64) *models.Payment {
	t.Helper()

	txn := "pi_123"
	payment := &models.Payment{
		ServiceRequestID: &requestID,
		AmountCents:      amountCents,
		Currency:         "USD",
		Provider:         "stripe",
		ProviderTxnID:    &txn,
		Status:           "succeeded",
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}
	return payment
}

func TestCancelRequestAuthorization(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()
	request := createRequest(t, db, owner, 10000)

	if _, err := CancelRequest(db, &stubRefundClient{}, DefaultFeeSchedule(), request.ID, uuid.New(), false, "changed my mind", time.Now()); !errors.Is(err, ErrNotRequestOwner) {
		t.Errorf("expected ErrNotRequestOwner, got %v", err)
	}

	// An admin may cancel on a customer's behalf.
	if _, err := CancelRequest(db, &stubRefundClient{}, DefaultFeeSchedule(), request.ID, uuid.New(), true, "customer called in", time.Now()); err != nil {
		t.Errorf("admin cancel failed: %v", err)
	}
}

func TestCancelRequestAlreadyTerminal(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()

	for _, status := range []string{StatusCancelled, StatusCompleted, StatusPaid} {
		request := createRequest(t, db, owner, 10000)
		db.Model(request).Update("status", status)

		_, err := CancelRequest(db, &stubRefundClient{}, DefaultFeeSchedule(), request.ID, owner, false, "too late", time.Now())
		if !errors.Is(err, ErrAlreadyTerminal) {
			t.Errorf("status %s: expected ErrAlreadyTerminal, got %v", status, err)
		}
	}
}

func TestCancelRequestFeeAndRefund(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	request := createRequest(t, db, owner, 10000)
	serviceTime := now.Add(10 * time.Hour) // 24h tier: 1000 cents
	db.Model(request).Update("scheduled_at", serviceTime)
	createSucceededPayment(t, db, request.ID, 10000)

	client := &stubRefundClient{}
	result, err := CancelRequest(db, client, DefaultFeeSchedule(), request.ID, owner, false, "plans changed", now)
	if err != nil {
		t.Fatalf("CancelRequest failed: %v", err)
	}

	if result.FeeCents != 1000 {
		t.Errorf("fee = %d, expected 1000", result.FeeCents)
	}
	if result.Refund != RefundSucceeded || result.RefundCents != 9000 {
		t.Errorf("refund = %s/%d, expected succeeded/9000", result.Refund, result.RefundCents)
	}
	if len(client.refunds) != 1 || client.refunds[0] != 9000 {
		t.Errorf("provider refund calls = %v", client.refunds)
	}

	var updated models.ServiceRequest
	db.First(&updated, "id = ?", request.ID)
	if updated.Status != StatusCancelled || updated.CancellationFeeCents != 1000 || updated.CancelledAt == nil {
		t.Errorf("request not terminalized: %+v", updated)
	}
}

func TestCancelRequestNoPaymentOnFile(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()
	request := createRequest(t, db, owner, 10000)

	result, err := CancelRequest(db, &stubRefundClient{}, DefaultFeeSchedule(), request.ID, owner, false, "never paid", time.Now())
	if err != nil {
		t.Fatalf("CancelRequest failed: %v", err)
	}
	if result.Refund != RefundNotAttempted {
		t.Errorf("refund = %s, expected not_attempted", result.Refund)
	}
}

func TestCancelRequestRefundSkippedWhenFeeSwallowsPayment(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	request := createRequest(t, db, owner, 3000)
	serviceTime := now.Add(time.Hour) // tightest tier: 4000 cents
	db.Model(request).Update("scheduled_at", serviceTime)
	createSucceededPayment(t, db, request.ID, 3000)

	client := &stubRefundClient{}
	result, err := CancelRequest(db, client, DefaultFeeSchedule(), request.ID, owner, false, "last minute", now)
	if err != nil {
		t.Fatalf("CancelRequest failed: %v", err)
	}
	if result.Refund != RefundSkipped {
		t.Errorf("refund = %s, expected skipped", result.Refund)
	}
	if len(client.refunds) != 0 {
		t.Error("no refund should have been attempted")
	}
}

func TestCancelRequestRefundFailureDoesNotBlockCancellation(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	request := createRequest(t, db, owner, 10000)
	serviceTime := now.Add(48 * time.Hour)
	db.Model(request).Update("scheduled_at", serviceTime)
	createSucceededPayment(t, db, request.ID, 10000)

	failing := &stubRefundClient{err: errors.New("provider unavailable")}
	result, err := CancelRequest(db, failing, DefaultFeeSchedule(), request.ID, owner, false, "moving away", now)
	if err != nil {
		t.Fatalf("CancelRequest must not fail on a refund error: %v", err)
	}
	if result.Refund != RefundFailed {
		t.Errorf("refund = %s, expected failed", result.Refund)
	}

	var updated models.ServiceRequest
	db.First(&updated, "id = ?", request.ID)
	if updated.Status != StatusCancelled {
		t.Error("request must be cancelled even when the refund fails")
	}

	var payment models.Payment
	db.First(&payment, "service_request_id = ?", request.ID)
	if payment.RefundStatus == nil || *payment.RefundStatus != RefundFailed {
		t.Error("refund failure was not recorded on the payment")
	}
}

func TestCancelRequestMirrorsAssignment(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()
	request := createRequest(t, db, owner, 10000)
	created := createAssignment(t, db, request.ID, uuid.New(), 8000)

	if _, err := CancelRequest(db, &stubRefundClient{}, DefaultFeeSchedule(), request.ID, owner, false, "fundi no-show", time.Now()); err != nil {
		t.Fatalf("CancelRequest failed: %v", err)
	}

	var assignment models.JobAssignment
	db.First(&assignment, "id = ?", created.ID)
	if assignment.Status != StatusCancelled {
		t.Errorf("assignment status = %s, expected cancelled", assignment.Status)
	}
	if assignment.CancellationReason == nil || *assignment.CancellationReason != "fundi no-show" {
		t.Error("cancellation reason was not mirrored")
	}
}
