// Package occupancy classifies tables by fill level. The thresholds drive
// both the console color coding and the realtime notification kinds.
package occupancy

import "math"

type Status string

const (
	StatusEmpty      Status = "empty"
	StatusPartial    Status = "partial"
	StatusAlmostFull Status = "almost_full"
	StatusFull       Status = "full"
	StatusOverbooked Status = "overbooked"
)

const almostFullRatio = 0.80

// Classify maps occupied seats against capacity. Negative occupancy is
// treated as zero; zero capacity is always empty, even when overbooked
// data arrives for it.
func Classify(occupied, capacity int) Status {
	if occupied < 0 {
		occupied = 0
	}
	switch {
	case capacity == 0 || occupied == 0:
		return StatusEmpty
	case occupied > capacity:
		return StatusOverbooked
	case occupied == capacity:
		return StatusFull
	case float64(occupied) >= almostFullRatio*float64(capacity):
		return StatusAlmostFull
	default:
		return StatusPartial
	}
}

// Percentage returns the fill percentage rounded to a whole number,
// 0 when capacity is 0.
func Percentage(occupied, capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	if occupied < 0 {
		occupied = 0
	}
	return math.Round(float64(occupied) / float64(capacity) * 100)
}
