package service

import (
	"testing"
	"time"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestDateRangesOverlap(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     *time.Time
		want                           bool
	}{
		{"disjoint before", day("2024-06-01"), day("2024-06-03"), day("2024-06-04"), day("2024-06-10"), false},
		{"disjoint after", day("2024-06-11"), day("2024-06-12"), day("2024-06-04"), day("2024-06-10"), false},
		{"touching boundary day shared", day("2024-06-01"), day("2024-06-03"), day("2024-06-03"), day("2024-06-05"), true},
		{"contained", day("2024-06-02"), day("2024-06-02"), day("2024-06-01"), day("2024-06-10"), true},
		{"identical", day("2024-06-01"), day("2024-06-03"), day("2024-06-01"), day("2024-06-03"), true},
		{"open end extends forward", day("2024-06-03"), day("2024-06-05"), day("2024-06-01"), nil, true},
		{"open end but request before start", day("2024-05-01"), day("2024-05-02"), day("2024-06-01"), nil, false},
		{"open start extends backward", day("2024-05-01"), day("2024-05-02"), nil, day("2024-06-01"), true},
		{"open start but request after end", day("2024-06-05"), day("2024-06-06"), nil, day("2024-06-01"), false},
		{"both bounds missing constrains nothing", day("2024-06-01"), day("2024-06-03"), nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateRangesOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if got != tt.want {
				t.Errorf("DateRangesOverlap() = %v, want %v", got, tt.want)
			}

			// Symmetry
			if sym := DateRangesOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); sym != got {
				t.Errorf("DateRangesOverlap not symmetric: %v vs %v", got, sym)
			}
		})
	}
}

func TestDateRangesOverlapIgnoresTimeOfDay(t *testing.T) {
	// Stored dates may carry a time component; comparison is by calendar day.
	aEnd := time.Date(2024, 6, 3, 23, 30, 0, 0, time.UTC)
	bStart := time.Date(2024, 6, 3, 1, 0, 0, 0, time.FixedZone("X", 7*3600))

	if !DateRangesOverlap(day("2024-06-01"), &aEnd, &bStart, day("2024-06-05")) {
		t.Error("expected same calendar day to overlap regardless of time-of-day")
	}
}

func TestHourRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"touching endpoints not a conflict", 9, 17, 17, 20, false},
		{"touching endpoints reversed", 17, 20, 9, 17, false},
		{"one hour shared", 9, 17, 16, 20, true},
		{"contained", 10, 12, 9, 17, true},
		{"identical", 9, 17, 9, 17, true},
		{"disjoint", 9, 11, 12, 14, false},
		{"full day against morning", 0, 24, 8, 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HourRangesOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if got != tt.want {
				t.Errorf("HourRangesOverlap(%d,%d,%d,%d) = %v, want %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}

			if sym := HourRangesOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); sym != got {
				t.Errorf("HourRangesOverlap not symmetric: %v vs %v", got, sym)
			}
		})
	}
}
