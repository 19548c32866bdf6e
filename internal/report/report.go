// Package report assembles aggregated timesheet data into an ordered,
// render-ready sequence of sections. It carries no business rules beyond
// ordering: header first, weeks chronologically, monthly summary last. The
// messaging layer decides how each section is drawn.
package report

import (
	"time"

	"unibot/internal/calendar"
	"unibot/internal/timesheet"
)

type SectionType int

const (
	SectionHeader SectionType = iota
	SectionWeek
	SectionMonthly
)

// Section is one display block. Exactly one of the pointer fields is set,
// matching Type.
type Section struct {
	Type    SectionType
	Header  *Header
	Week    *WeekBlock
	Monthly *MonthlyBlock
}

type Header struct {
	EmployeeName string
	EmployeeCode string
	Rotation     calendar.Rotation
	PeriodStart  time.Time
	PeriodEnd    time.Time
	WorkingDays  int
}

type WeekBlock struct {
	Start  time.Time
	Days   []timesheet.DailyRecord
	Totals timesheet.Summary
}

type MonthlyBlock struct {
	Totals            timesheet.Summary
	ExcludedSaturdays int
	ExcludedHolidays  int
}

// Build is a pure transform: same inputs, same section list. Week order is
// taken from the input and must already be chronological.
func Build(header Header, weeks []timesheet.Week, monthly timesheet.Monthly) []Section {
	sections := make([]Section, 0, len(weeks)+2)
	h := header
	sections = append(sections, Section{Type: SectionHeader, Header: &h})

	for _, w := range weeks {
		wb := WeekBlock{Start: w.Start, Days: w.Records, Totals: w.Summary()}
		sections = append(sections, Section{Type: SectionWeek, Week: &wb})
	}

	mb := MonthlyBlock{
		Totals:            monthly.Summary,
		ExcludedSaturdays: monthly.ExcludedSaturdays,
		ExcludedHolidays:  monthly.ExcludedHolidays,
	}
	sections = append(sections, Section{Type: SectionMonthly, Monthly: &mb})
	return sections
}
