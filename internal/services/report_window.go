package services

import (
	"time"

	"go.uber.org/zap"

	"taskmate/internal/models"
)

// resolveTimezone loads the named zone, falling back to the configured
// default and finally to UTC. The chain never fails.
func resolveTimezone(name, fallback string, log *zap.Logger) *time.Location {
	candidate := name
	if candidate == "" {
		candidate = fallback
	}
	if loc, err := time.LoadLocation(candidate); err == nil {
		return loc
	}
	log.Warn("report.invalid_timezone", zap.String("requested", name))
	if loc, err := time.LoadLocation(fallback); err == nil {
		return loc
	}
	return time.UTC
}

// calculateWindow computes the [start, end) reporting window for the period.
// The anchor is midnight of the report date (or today) in the resolved zone;
// both bounds come back in UTC, the anchor stays local for display.
//
// daily:   [anchor, anchor+1d)
// weekly:  rolling seven days from the anchor, not calendar-aligned
// monthly: [first of anchor's month, first of next month). The end bound is
// found by overshooting the month boundary and truncating to day one, which
// handles every month length and leap years.
func calculateWindow(
	reportType models.ReportType, reportDate *time.Time, loc *time.Location, now time.Time,
) (windowStart, windowEnd, anchor time.Time) {
	nowLocal := now.In(loc)
	ref := nowLocal
	if reportDate != nil {
		ref = *reportDate
	}
	anchorLocal := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)

	var startLocal, endLocal time.Time
	switch reportType {
	case models.ReportWeekly:
		startLocal = anchorLocal
		endLocal = anchorLocal.AddDate(0, 0, 7)
	case models.ReportMonthly:
		startLocal = time.Date(anchorLocal.Year(), anchorLocal.Month(), 1, 0, 0, 0, 0, loc)
		overshoot := startLocal.AddDate(0, 0, 32)
		endLocal = time.Date(overshoot.Year(), overshoot.Month(), 1, 0, 0, 0, 0, loc)
	default:
		startLocal = anchorLocal
		endLocal = anchorLocal.AddDate(0, 0, 1)
	}

	return startLocal.UTC(), endLocal.UTC(), startLocal
}
