package services

import (
	"testing"
	"time"

	"github.com/otienobrian/fundi_connect/models"
	"github.com/google/uuid"
)

func TestCanonicalStatus(t *testing.T) {
	tests := []struct {
		token    string
		expected string
		known    bool
	}{
		{token: "completed", expected: "completed", known: true},
		{token: "complete", expected: "completed", known: true},
		{token: "done", expected: "completed", known: true},
		{token: "Done", expected: "completed", known: true},
		{token: "paid", expected: "paid", known: true},
		{token: "in_progress", expected: "in_progress", known: true},
		{token: " verified ", expected: "verified", known: true},
		{token: "awaiting_parts", expected: "awaiting_parts", known: false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, known := CanonicalStatus(tt.token)
			if got != tt.expected || known != tt.known {
				t.Errorf("CanonicalStatus(%q) = %q, %v; expected %q, %v", tt.token, got, known, tt.expected, tt.known)
			}
		})
	}
}

func TestApplyStatusChangeWithoutAssignment(t *testing.T) {
	db := newTestDB(t)
	request := createRequest(t, db, uuid.New(), 10000)

	updated, err := ApplyStatusChange(db, request.ID, "in_progress", nil, time.Now())
	if err != nil {
		t.Fatalf("ApplyStatusChange failed: %v", err)
	}
	if updated.Status != StatusInProgress {
		t.Errorf("request status = %s, expected in_progress", updated.Status)
	}

	var earningCount int64
	db.Model(&models.Earning{}).Count(&earningCount)
	if earningCount != 0 {
		t.Error("a request with no assignment must not touch the ledger")
	}
}

func TestApplyStatusChangeNotFound(t *testing.T) {
	db := newTestDB(t)

	if _, err := ApplyStatusChange(db, uuid.New(), "verified", nil, time.Now()); err != ErrRequestNotFound {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestApplyStatusChangeUnknownTokenPassesThrough(t *testing.T) {
	db := newTestDB(t)
	request := createRequest(t, db, uuid.New(), 10000)
	createAssignment(t, db, request.ID, uuid.New(), 8000)

	updated, err := ApplyStatusChange(db, request.ID, "awaiting_parts", nil, time.Now())
	if err != nil {
		t.Fatalf("ApplyStatusChange failed: %v", err)
	}
	if updated.Status != "awaiting_parts" {
		t.Errorf("request status = %s", updated.Status)
	}

	var assignment models.JobAssignment
	db.Where("service_request_id = ?", request.ID).First(&assignment)
	if assignment.Status != "awaiting_parts" {
		t.Errorf("assignment status = %s, expected verbatim token", assignment.Status)
	}

	var earningCount int64
	db.Model(&models.Earning{}).Count(&earningCount)
	if earningCount != 0 {
		t.Error("unknown tokens must not create ledger entries")
	}
}

func TestApplyStatusChangeVerifiedCreatesAvailableEarning(t *testing.T) {
	db := newTestDB(t)
	fundiID := uuid.New()
	request := createRequest(t, db, uuid.New(), 10000)
	assignment := createAssignment(t, db, request.ID, fundiID, 8000)
	now := time.Now()

	if _, err := ApplyStatusChange(db, request.ID, "verified", nil, now); err != nil {
		t.Fatalf("ApplyStatusChange failed: %v", err)
	}

	var earning models.Earning
	if err := db.Where("job_assignment_id = ?", assignment.ID).First(&earning).Error; err != nil {
		t.Fatalf("expected a ledger entry: %v", err)
	}
	if earning.Status != models.EarningStatusAvailable || earning.AmountCents != 8000 {
		t.Errorf("earning = %s/%d, expected available/8000", earning.Status, earning.AmountCents)
	}
	if earning.FundiID != fundiID {
		t.Error("earning credited to the wrong fundi")
	}
}

// Full lifecycle: pending -> in_progress -> pending_verification -> verified
// -> paid, with milestones set exactly once and the single ledger entry
// moving available -> paid_out without duplication.
func TestApplyStatusChangeFullLifecycle(t *testing.T) {
	db := newTestDB(t)
	fundiID := uuid.New()
	request := createRequest(t, db, uuid.New(), 10000)
	created := createAssignment(t, db, request.ID, fundiID, 8000)

	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	steps := []struct {
		token  string
		at     time.Time
		status string
	}{
		{token: "in_progress", at: base, status: StatusInProgress},
		{token: "pending_verification", at: base.Add(2 * time.Hour), status: StatusPendingVerification},
		{token: "verified", at: base.Add(3 * time.Hour), status: StatusVerified},
		{token: "paid", at: base.Add(4 * time.Hour), status: StatusPaid},
	}

	for _, step := range steps {
		updated, err := ApplyStatusChange(db, request.ID, step.token, nil, step.at)
		if err != nil {
			t.Fatalf("ApplyStatusChange(%s) failed: %v", step.token, err)
		}
		if updated.Status != step.status {
			t.Fatalf("after %s: request status = %s", step.token, updated.Status)
		}

		var assignment models.JobAssignment
		db.First(&assignment, "id = ?", created.ID)
		if assignment.Status != step.status {
			t.Fatalf("after %s: assignment status = %s", step.token, assignment.Status)
		}
	}

	var assignment models.JobAssignment
	db.First(&assignment, "id = ?", created.ID)

	if assignment.CheckedOutAt == nil || !assignment.CheckedOutAt.Equal(base.Add(2*time.Hour)) {
		t.Errorf("checked_out_at = %v, expected the check-out step time", assignment.CheckedOutAt)
	}
	if assignment.VerifiedAt == nil || !assignment.VerifiedAt.Equal(base.Add(3*time.Hour)) {
		t.Errorf("verified_at = %v, expected the verification step time", assignment.VerifiedAt)
	}
	if assignment.PaidAt == nil || !assignment.PaidAt.Equal(base.Add(4*time.Hour)) {
		t.Errorf("paid_at = %v, expected the payment step time", assignment.PaidAt)
	}

	var earnings []models.Earning
	db.Where("job_assignment_id = ?", created.ID).Find(&earnings)
	if len(earnings) != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", len(earnings))
	}
	if earnings[0].Status != models.EarningStatusPaidOut || earnings[0].AmountCents != 8000 {
		t.Errorf("earning = %s/%d, expected paid_out/8000", earnings[0].Status, earnings[0].AmountCents)
	}
}

// Replaying a completion must not rewind milestones that were already set.
func TestApplyStatusChangeMilestonesNeverRewound(t *testing.T) {
	db := newTestDB(t)
	request := createRequest(t, db, uuid.New(), 10000)
	created := createAssignment(t, db, request.ID, uuid.New(), 8000)

	first := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	later := first.Add(6 * time.Hour)

	if _, err := ApplyStatusChange(db, request.ID, "verified", nil, first); err != nil {
		t.Fatalf("ApplyStatusChange failed: %v", err)
	}
	if _, err := ApplyStatusChange(db, request.ID, "done", nil, later); err != nil {
		t.Fatalf("ApplyStatusChange failed: %v", err)
	}
	if _, err := ApplyStatusChange(db, request.ID, "completed", nil, later.Add(time.Hour)); err != nil {
		t.Fatalf("ApplyStatusChange replay failed: %v", err)
	}

	var assignment models.JobAssignment
	db.First(&assignment, "id = ?", created.ID)

	if assignment.Status != StatusCompleted {
		t.Errorf("assignment status = %s, expected completed", assignment.Status)
	}
	if !assignment.VerifiedAt.Equal(first) {
		t.Errorf("verified_at was rewound to %v", assignment.VerifiedAt)
	}
	if !assignment.PaidAt.Equal(later) || !assignment.CompletedAt.Equal(later) {
		t.Errorf("completion milestones moved on replay: paid_at=%v completed_at=%v", assignment.PaidAt, assignment.CompletedAt)
	}
}

// "paid" keeps the paid status on the assignment, completion synonyms map to
// completed.
func TestApplyStatusChangePaidVersusDone(t *testing.T) {
	db := newTestDB(t)

	paidRequest := createRequest(t, db, uuid.New(), 10000)
	createAssignment(t, db, paidRequest.ID, uuid.New(), 8000)
	doneRequest := createRequest(t, db, uuid.New(), 10000)
	createAssignment(t, db, doneRequest.ID, uuid.New(), 8000)

	now := time.Now()
	if _, err := ApplyStatusChange(db, paidRequest.ID, "paid", nil, now); err != nil {
		t.Fatalf("ApplyStatusChange failed: %v", err)
	}
	if _, err := ApplyStatusChange(db, doneRequest.ID, "done", nil, now); err != nil {
		t.Fatalf("ApplyStatusChange failed: %v", err)
	}

	var paidAssignment, doneAssignment models.JobAssignment
	db.Where("service_request_id = ?", paidRequest.ID).First(&paidAssignment)
	db.Where("service_request_id = ?", doneRequest.ID).First(&doneAssignment)

	if paidAssignment.Status != StatusPaid {
		t.Errorf("paid token: assignment status = %s", paidAssignment.Status)
	}
	if doneAssignment.Status != StatusCompleted {
		t.Errorf("done token: assignment status = %s", doneAssignment.Status)
	}
}
