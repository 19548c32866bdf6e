package service

import (
	"time"

	"unibot/internal/calendar"
)

// Period is an inclusive reporting date range. The two strategies below are
// the only ones the commands use; both stay inside a single calendar month.
type Period struct {
	Start time.Time
	End   time.Time
}

// CurrentMonthToDate runs from the 1st of the current month through
// yesterday, never including today. On the 1st the range is inverted and
// yields no working days.
func CurrentMonthToDate(now time.Time) Period {
	return Period{
		Start: calendar.Date(now.Year(), now.Month(), 1),
		End:   calendar.Date(now.Year(), now.Month(), now.Day()).AddDate(0, 0, -1),
	}
}

// PreviousMonth covers the previous calendar month in full.
func PreviousMonth(now time.Time) Period {
	first := calendar.Date(now.Year(), now.Month(), 1)
	return Period{
		Start: first.AddDate(0, -1, 0),
		End:   first.AddDate(0, 0, -1),
	}
}
