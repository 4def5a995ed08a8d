// Package age computes display durations from record timestamps.
package age

import "time"

// AgeData returns how long ago then was and whether then is set. Timestamps
// in the future report zero.
func AgeData(then time.Time, now time.Time) (time.Duration, bool) {
	if then.IsZero() {
		return 0, false
	}
	if then.After(now) {
		return 0, true
	}
	return now.Sub(then), true
}
