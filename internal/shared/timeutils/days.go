package timeutils

import "time"

// DaysBetween counts calendar day boundaries crossed from a to b, negative
// when b is before a. Billing dates are day-granular, so an instant-based
// floor would undercount by one whenever sub-second drift is involved.
func DaysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	return int(bDay.Sub(aDay).Hours() / 24)
}

func DaysUntil(t time.Time) int {
	return DaysBetween(time.Now(), t)
}
