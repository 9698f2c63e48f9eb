package extract

import "math"

// Qualitative status buckets. Spanish on purpose: these strings reach the
// caregiver-facing dashboard directly.
const (
	StatusNormal   = "Normal"
	StatusModerate = "Moderado"
	StatusLow      = "Bajo"
)

// StatusFromConfidence maps a classifier confidence to a status bucket.
func StatusFromConfidence(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return StatusNormal
	case confidence >= 0.5:
		return StatusModerate
	default:
		return StatusLow
	}
}

// StatusFromSleepHours classifies sleep by the measured hours themselves, not
// by confidence.
func StatusFromSleepHours(hours float64) string {
	switch {
	case hours >= 7:
		return StatusNormal
	case hours >= 5:
		return StatusModerate
	default:
		return StatusLow
	}
}

// Rating converts a [0,1] confidence to a 0-10 integer rating. One rule
// everywhere: round half away from zero, then clamp.
func Rating(confidence float64) int {
	r := int(math.Round(confidence * 10))
	if r < 0 {
		return 0
	}
	if r > 10 {
		return 10
	}
	return r
}
