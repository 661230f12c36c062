package service

import "time"

// Wire formats of booking dates and times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// calendarDay truncates t to midnight UTC of the calendar day t falls on
// in its own location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
