package slackbot

import (
	"fmt"
	"strings"

	"unibot/internal/report"
	"unibot/internal/timesheet"
)

var weekdayAbbr = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}

const dateLayout = "02/01/2006"

// renderSections turns the report sections into mrkdwn messages, one per
// section, preserving the section order.
func renderSections(sections []report.Section) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		switch s.Type {
		case report.SectionHeader:
			out = append(out, renderHeader(s.Header))
		case report.SectionWeek:
			out = append(out, renderWeek(s.Week))
		case report.SectionMonthly:
			out = append(out, renderMonthly(s.Monthly))
		}
	}
	return out
}

func renderHeader(h *report.Header) string {
	return fmt.Sprintf("*Control de horas — %s (%s)*\nPeríodo: %s a %s · Libre tipo %s · %d días hábiles",
		h.EmployeeName, h.EmployeeCode,
		h.PeriodStart.Format(dateLayout), h.PeriodEnd.Format(dateLayout),
		h.Rotation, h.WorkingDays)
}

func renderWeek(w *report.WeekBlock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Semana del %s*\n", w.Start.Format(dateLayout))
	for _, d := range w.Days {
		day := fmt.Sprintf("%s %s", weekdayAbbr[d.Date.Weekday()], d.Date.Format("02/01"))
		switch {
		case d.Pass:
			fmt.Fprintf(&sb, "• %s: %s / %s ✔\n", day,
				timesheet.FormatMinutes(d.Minutes), timesheet.FormatMinutes(d.Required))
		case d.Minutes == 0:
			fmt.Fprintf(&sb, "• %s: sin registro — faltan %s ✘\n", day, d.Shortfall)
		default:
			fmt.Fprintf(&sb, "• %s: %s / %s — faltan %s ✘\n", day,
				timesheet.FormatMinutes(d.Minutes), timesheet.FormatMinutes(d.Required), d.Shortfall)
		}
	}
	fmt.Fprintf(&sb, "Total semana: %s de %s %s",
		timesheet.FormatMinutes(w.Totals.Minutes), timesheet.FormatMinutes(w.Totals.Required),
		passMark(w.Totals.Pass))
	return sb.String()
}

func renderMonthly(m *report.MonthlyBlock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Resumen del período*\nTotal: %s de %s %s\n",
		timesheet.FormatMinutes(m.Totals.Minutes), timesheet.FormatMinutes(m.Totals.Required),
		passMark(m.Totals.Pass))
	fmt.Fprintf(&sb, "Sábados libres excluidos: %d · Feriados excluidos: %d",
		m.ExcludedSaturdays, m.ExcludedHolidays)
	if !m.Totals.Pass {
		fmt.Fprintf(&sb, "\nHoras pendientes: %s",
			timesheet.FormatMinutes(m.Totals.Required-m.Totals.Minutes))
	}
	return sb.String()
}

func passMark(pass bool) string {
	if pass {
		return "✔"
	}
	return "✘"
}
