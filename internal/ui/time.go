package ui

import (
	"strconv"
	"time"

	internalage "github.com/amonks/flowstate/internal/age"
)

var durationUnits = []struct {
	size   time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
}

// FormatTimeAgo returns a compact age like "2m ago", or "-" for a zero time.
func FormatTimeAgo(then time.Time, now time.Time) string {
	age := FormatTimeAgeShort(then, now)
	if age == "-" {
		return age
	}
	return age + " ago"
}

// FormatTimeAgeShort returns a compact age like "2m", or "-" for a zero time.
func FormatTimeAgeShort(then time.Time, now time.Time) string {
	duration, ok := internalage.AgeData(then, now)
	if !ok {
		return "-"
	}
	return FormatDurationShort(duration)
}

// FormatDurationShort renders duration in its largest whole unit (d/h/m/s).
func FormatDurationShort(duration time.Duration) string {
	duration = max(duration, 0)
	for _, unit := range durationUnits {
		if duration >= unit.size {
			return strconv.FormatInt(int64(duration/unit.size), 10) + unit.suffix
		}
	}
	return strconv.FormatInt(int64(duration/time.Second), 10) + "s"
}
