package services

import (
	"testing"
	"time"

	"github.com/otienobrian/fundi_connect/models"
	"github.com/google/uuid"
)

func TestUpsertEarningCreatesOnce(t *testing.T) {
	db := newTestDB(t)
	assignmentID := uuid.New()
	fundiID := uuid.New()
	availableAt := time.Now()

	for i := 0; i < 2; i++ {
		if err := UpsertEarning(db, assignmentID, fundiID, 8000, models.EarningStatusAvailable, &availableAt, nil); err != nil {
			t.Fatalf("UpsertEarning (attempt %d) failed: %v", i+1, err)
		}
	}

	var earnings []models.Earning
	if err := db.Where("job_assignment_id = ?", assignmentID).Find(&earnings).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(earnings) != 1 {
		t.Fatalf("expected exactly 1 earning, got %d", len(earnings))
	}
	if earnings[0].AmountCents != 8000 || earnings[0].Status != models.EarningStatusAvailable {
		t.Errorf("unexpected earning: amount=%d status=%s", earnings[0].AmountCents, earnings[0].Status)
	}
}

func TestUpsertEarningNonPositiveAmountIsNoOp(t *testing.T) {
	db := newTestDB(t)
	assignmentID := uuid.New()

	if err := UpsertEarning(db, assignmentID, uuid.New(), 0, models.EarningStatusAvailable, nil, nil); err != nil {
		t.Fatalf("UpsertEarning failed: %v", err)
	}
	if err := UpsertEarning(db, assignmentID, uuid.New(), -500, models.EarningStatusAvailable, nil, nil); err != nil {
		t.Fatalf("UpsertEarning failed: %v", err)
	}

	var count int64
	db.Model(&models.Earning{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no earnings written, found %d", count)
	}
}

func TestUpsertEarningPromotesToPaidOut(t *testing.T) {
	db := newTestDB(t)
	assignmentID := uuid.New()
	fundiID := uuid.New()
	availableAt := time.Now().Add(-time.Hour)
	paidOutAt := time.Now()

	if err := UpsertEarning(db, assignmentID, fundiID, 8000, models.EarningStatusAvailable, &availableAt, nil); err != nil {
		t.Fatalf("UpsertEarning failed: %v", err)
	}
	if err := UpsertEarning(db, assignmentID, fundiID, 8000, models.EarningStatusPaidOut, &paidOutAt, &paidOutAt); err != nil {
		t.Fatalf("UpsertEarning failed: %v", err)
	}

	var earning models.Earning
	if err := db.Where("job_assignment_id = ?", assignmentID).First(&earning).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if earning.Status != models.EarningStatusPaidOut {
		t.Errorf("expected paid_out, got %s", earning.Status)
	}
	if earning.PaidOutAt == nil {
		t.Error("expected paid_out_at to be set")
	}
}

func TestUpsertEarningPaidOutIsTerminal(t *testing.T) {
	db := newTestDB(t)
	assignmentID := uuid.New()
	fundiID := uuid.New()
	now := time.Now()

	if err := UpsertEarning(db, assignmentID, fundiID, 8000, models.EarningStatusPaidOut, &now, &now); err != nil {
		t.Fatalf("UpsertEarning failed: %v", err)
	}

	// A replay must not demote the entry; only the amount reconciles.
	if err := UpsertEarning(db, assignmentID, fundiID, 7500, models.EarningStatusAvailable, &now, nil); err != nil {
		t.Fatalf("UpsertEarning replay failed: %v", err)
	}

	var earning models.Earning
	if err := db.Where("job_assignment_id = ?", assignmentID).First(&earning).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if earning.Status != models.EarningStatusPaidOut {
		t.Errorf("paid_out entry was demoted to %s", earning.Status)
	}
	if earning.AmountCents != 7500 {
		t.Errorf("expected amount reconciled to 7500, got %d", earning.AmountCents)
	}
	if earning.PaidOutAt == nil {
		t.Error("paid_out_at was cleared on replay")
	}
}
