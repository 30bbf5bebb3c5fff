package service

import "time"

// Overlap tests for schedule windows. A window is a calendar date range
// (inclusive, possibly open-ended on either side) combined with an
// hour-of-day range (half-open). Both tests are pure and symmetric.

// DateRangesOverlap reports whether two inclusive date ranges share at least
// one calendar day. A nil bound means the range is unbounded in that
// direction. A range with no bounds at all constrains nothing and never
// overlaps.
func DateRangesOverlap(aStart, aEnd, bStart, bEnd *time.Time) bool {
	if (aStart == nil && aEnd == nil) || (bStart == nil && bEnd == nil) {
		return false
	}
	if aEnd != nil && bStart != nil && toDay(*aEnd).Before(toDay(*bStart)) {
		return false
	}
	if bEnd != nil && aStart != nil && toDay(*bEnd).Before(toDay(*aStart)) {
		return false
	}
	return true
}

// HourRangesOverlap reports whether two half-open hour ranges [start, end)
// share at least one instant. Touching endpoints are not an overlap.
func HourRangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return toDay(a).Equal(toDay(b))
}

// toDay truncates to midnight UTC so comparisons are calendar-date
// comparisons regardless of the stored time-of-day or zone.
func toDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
