package service

import "time"

// Symbolic reporting periods.
const (
	PeriodDay       = "day"
	PeriodWeek      = "week"
	PeriodFortnight = "fortnight"
	PeriodMonth     = "month"
)

// PeriodStart resolves a symbolic period to its start timestamp. The window
// is [start, now): inclusive of the start boundary, open at the top. Unknown
// periods resolve to the month default with ok=false so callers can choose
// between defaulting and rejecting.
func PeriodStart(period string, now time.Time) (start time.Time, ok bool) {
	switch period {
	case PeriodDay:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodFortnight:
		return now.AddDate(0, 0, -15), true
	case PeriodMonth, "":
		return now.AddDate(0, 0, -30), true
	default:
		return now.AddDate(0, 0, -30), false
	}
}
