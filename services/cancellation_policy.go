package services

import (
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	config "github.com/otienobrian/fundi_connect/configs"
	"github.com/otienobrian/fundi_connect/models"
)

// FeeTier charges FeeCents when the time remaining until service is within
// the tier's window.
type FeeTier struct {
	Within   time.Duration
	FeeCents int64
}

// FeeSchedule is an ordered set of tiers, tightest window first. The first
// matching tier wins.
type FeeSchedule []FeeTier

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		{Within: 2 * time.Hour, FeeCents: 4000},
		{Within: 8 * time.Hour, FeeCents: 2500},
		{Within: 24 * time.Hour, FeeCents: 1000},
	}
}

// LoadFeeSchedule reads CANCELLATION_FEE_TIERS ("2h:4000,8h:2500,24h:1000").
// Malformed or missing config falls back to the default schedule.
func LoadFeeSchedule() FeeSchedule {
	raw := config.Config("CANCELLATION_FEE_TIERS")
	if raw == "" {
		return DefaultFeeSchedule()
	}

	var schedule FeeSchedule
	for _, part := range strings.Split(raw, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(fields) != 2 {
			log.Printf("⚠️ Invalid cancellation fee tier %q, using default schedule", part)
			return DefaultFeeSchedule()
		}
		window, err := time.ParseDuration(fields[0])
		if err != nil {
			log.Printf("⚠️ Invalid cancellation fee window %q, using default schedule", fields[0])
			return DefaultFeeSchedule()
		}
		fee, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			log.Printf("⚠️ Invalid cancellation fee amount %q, using default schedule", fields[1])
			return DefaultFeeSchedule()
		}
		schedule = append(schedule, FeeTier{Within: window, FeeCents: fee})
	}

	sort.Slice(schedule, func(i, j int) bool { return schedule[i].Within < schedule[j].Within })
	return schedule
}

// FeeFor returns the cancellation fee for a service at serviceTime, as seen
// from now. Pure: identical inputs always give identical output.
func (s FeeSchedule) FeeFor(now, serviceTime time.Time) int64 {
	remaining := serviceTime.Sub(now)
	for _, tier := range s {
		if remaining <= tier.Within {
			return tier.FeeCents
		}
	}
	return 0
}

// NominalServiceTime resolves when a request's service is considered to
// happen: the exact agreed timestamp when present, otherwise the scheduled
// date normalized to midday. ok is false when neither parses.
func NominalServiceTime(req *models.ServiceRequest) (time.Time, bool) {
	if req.ScheduledAt != nil {
		return *req.ScheduledAt, true
	}
	if req.ScheduledDate != nil {
		day, err := time.ParseInLocation("2006-01-02", *req.ScheduledDate, time.Local)
		if err == nil {
			return day.Add(12 * time.Hour), true
		}
	}
	return time.Time{}, false
}

// CancellationFee computes the fee owed for cancelling req at now. A request
// with no parseable service time cancels free.
func (s FeeSchedule) CancellationFee(now time.Time, req *models.ServiceRequest) int64 {
	serviceTime, ok := NominalServiceTime(req)
	if !ok {
		return 0
	}
	return s.FeeFor(now, serviceTime)
}
