// Package calendar decides which calendar days count as working days for an
// employee: Sundays and public holidays never do, and every employee rests
// every other Saturday according to their rotation type.
package calendar

import (
	"time"
)

// Rotation is the bi-weekly Saturday rest rotation assigned to an employee.
type Rotation string

const (
	RotationA Rotation = "A"
	RotationB Rotation = "B"
)

func (r Rotation) Valid() bool { return r == RotationA || r == RotationB }

// Date builds a UTC midnight date. All package functions normalize their
// inputs through it, so callers may pass timestamps with a time component.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Holidays returns the 13 public holidays observed for the given year.
// The list is the Uruguayan calendar the CRM has historically used; movable
// feasts (Carnival, Holy Week) are derived from Easter. Callers that need a
// different calendar pass their own list to the working-day functions, so
// this is default configuration data rather than a hard rule.
func Holidays(year int) []time.Time {
	easter := easterSunday(year)
	return []time.Time{
		Date(year, time.January, 1),
		Date(year, time.January, 6),
		easter.AddDate(0, 0, -48), // Carnival Monday
		easter.AddDate(0, 0, -47), // Carnival Tuesday
		easter.AddDate(0, 0, -3),  // Holy Thursday
		easter.AddDate(0, 0, -2),  // Good Friday
		Date(year, time.May, 1),
		Date(year, time.May, 18),
		Date(year, time.June, 19),
		Date(year, time.July, 18),
		Date(year, time.August, 25),
		Date(year, time.October, 12),
		Date(year, time.December, 25),
	}
}

// easterSunday computes Gregorian Easter (anonymous computus).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return Date(year, time.Month(month), day)
}

// HolidaySet is a date-keyed lookup built from a holiday list. Membership is
// insensitive to the order and time component of the source dates.
type HolidaySet map[time.Time]struct{}

func NewHolidaySet(dates []time.Time) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s[normalize(d)] = struct{}{}
	}
	return s
}

func (s HolidaySet) Contains(d time.Time) bool {
	_, ok := s[normalize(d)]
	return ok
}

// IsRestSaturday reports whether the date is a non-working Saturday for the
// rotation. Canonical rule: ISO week-of-year parity (Monday-start weeks);
// rotation A rests on odd weeks, rotation B on even weeks. Non-Saturday
// dates are never rest Saturdays.
func IsRestSaturday(d time.Time, rotation Rotation) bool {
	if d.Weekday() != time.Saturday {
		return false
	}
	_, week := d.ISOWeek()
	if rotation == RotationA {
		return week%2 == 1
	}
	return week%2 == 0
}

// IsWorkingDay applies the three exclusions: Sundays, holidays and the
// rotation's rest Saturdays.
func IsWorkingDay(d time.Time, rotation Rotation, holidays HolidaySet) bool {
	if d.Weekday() == time.Sunday {
		return false
	}
	if holidays.Contains(d) {
		return false
	}
	return !IsRestSaturday(d, rotation)
}

// WorkingDays returns the working days in [start, end], both endpoints
// inclusive, in ascending order. An inverted range yields nil.
func WorkingDays(start, end time.Time, rotation Rotation, holidays HolidaySet) []time.Time {
	start, end = normalize(start), normalize(end)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d, rotation, holidays) {
			days = append(days, d)
		}
	}
	return days
}

// WeekStart returns the Monday on or before the given date.
func WeekStart(d time.Time) time.Time {
	d = normalize(d)
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return d.AddDate(0, 0, -(wd - 1))
}
