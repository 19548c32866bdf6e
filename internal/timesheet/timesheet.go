// Package timesheet turns logged minutes into compliance records: per day
// against the daily threshold, then aggregated per Monday-start week and per
// reporting month. Pass/fail at week and month level is evaluated on totals,
// never by combining the daily flags.
package timesheet

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"unibot/internal/calendar"
)

// Required minutes per working day. Working Saturdays run a reduced shift.
const (
	RequiredWeekday  = 510 // 8h30m
	RequiredSaturday = 180 // 3h
)

// DailyRecord is one employee's compliance result for one working day.
// A day with no activity rows still gets a record with zero minutes.
type DailyRecord struct {
	Date      time.Time
	Minutes   int
	Saturday  bool
	Required  int
	Pass      bool
	Shortfall string // "1h 30m" style, empty when passing
}

func NewDailyRecord(date time.Time, minutes int) DailyRecord {
	r := DailyRecord{
		Date:     date,
		Minutes:  minutes,
		Saturday: date.Weekday() == time.Saturday,
	}
	r.Required = RequiredWeekday
	if r.Saturday {
		r.Required = RequiredSaturday
	}
	r.Pass = minutes >= r.Required
	if !r.Pass {
		r.Shortfall = FormatMinutes(r.Required - minutes)
	}
	return r
}

// Summary holds period totals. Pass compares the summed minutes against the
// summed requirement, so a period can fail even when no single day does.
type Summary struct {
	Minutes  int
	Required int
	Pass     bool
}

// Summarize totals the supplied records. Empty input yields zero totals with
// Pass true: a period with no working days is vacuously compliant.
func Summarize(records []DailyRecord) Summary {
	var s Summary
	for _, r := range records {
		s.Minutes += r.Minutes
		s.Required += r.Required
	}
	s.Pass = s.Minutes >= s.Required
	return s
}

// Week is a group of daily records sharing the same Monday week start.
type Week struct {
	Start   time.Time
	Records []DailyRecord
}

func (w Week) Summary() Summary { return Summarize(w.Records) }

// GroupByWeek buckets records by the Monday on or before each date and
// returns the weeks in ascending start order. Record order within a week
// follows the input order.
func GroupByWeek(records []DailyRecord) []Week {
	buckets := map[time.Time][]DailyRecord{}
	for _, r := range records {
		start := calendar.WeekStart(r.Date)
		buckets[start] = append(buckets[start], r)
	}

	starts := make([]time.Time, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	weeks := make([]Week, 0, len(starts))
	for _, start := range starts {
		weeks = append(weeks, Week{Start: start, Records: buckets[start]})
	}
	return weeks
}

// Monthly is the full-period aggregate plus the day counts excluded from the
// period. The exclusion counts are informational only; excluded days carry
// no records, so they never enter the arithmetic.
type Monthly struct {
	Summary           Summary
	ExcludedSaturdays int
	ExcludedHolidays  int
}

func MonthlySummary(records []DailyRecord, excludedSaturdays, excludedHolidays int) Monthly {
	return Monthly{
		Summary:           Summarize(records),
		ExcludedSaturdays: excludedSaturdays,
		ExcludedHolidays:  excludedHolidays,
	}
}

// MinutesFromHours converts a DECIMAL hours column value to whole minutes.
func MinutesFromHours(hours decimal.Decimal) int {
	return int(hours.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
}

// FormatMinutes renders minutes as "8h 30m", or "45m" under an hour.
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
