package models

import "time"

// AddCalendarMonths moves d forward by whole calendar months.
// When the target month is shorter, the day is clamped to its last day
// (2024-01-31 + 1 month = 2024-02-29).
func AddCalendarMonths(d Date, months int) Date {
	t := d.Time()
	// day 1 never overflows, so normalising the month is safe
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	day := min(t.Day(), daysIn(firstOfTarget.Year(), firstOfTarget.Month()))
	return NewDate(firstOfTarget.Year(), firstOfTarget.Month(), day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
