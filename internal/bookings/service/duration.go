package service

import (
	"math"

	"aircon_booking_backend/platform/apperr"
)

const (
	// defaultBaseMinutes applies when a service has no per-unit baseline.
	defaultBaseMinutes = 90
	workdayMinutes     = 480
)

// DurationEstimate is the projected time cost of a multi-unit job.
type DurationEstimate struct {
	TotalMinutes int
	Days         int
}

// EstimateDuration projects total working minutes and days for a job.
// The first unit costs the full baseline, units two through five cost
// 80% each, and units beyond five cost 60% each. Days are whole
// 8-hour workdays, minimum one.
//
// A coarser category-based estimator (2-day minimum for installations,
// plus a day per 3 extra units) exists in legacy admin screens; this
// per-unit formula is the authoritative one.
func EstimateDuration(baseMinutes, units int) (DurationEstimate, error) {
	if baseMinutes <= 0 {
		return DurationEstimate{}, apperr.Validation("base duration must be positive")
	}
	if units < 1 {
		return DurationEstimate{}, apperr.Validation("number of units must be at least 1")
	}

	midTier := units - 1
	if midTier > 4 {
		midTier = 4
	}
	tailTier := units - 5
	if tailTier < 0 {
		tailTier = 0
	}

	total := int(math.Round(float64(baseMinutes) * (1 + 0.8*float64(midTier) + 0.6*float64(tailTier))))
	days := (total + workdayMinutes - 1) / workdayMinutes
	if days < 1 {
		days = 1
	}
	return DurationEstimate{TotalMinutes: total, Days: days}, nil
}
