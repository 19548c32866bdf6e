package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"unibot/internal/calendar"
	"unibot/internal/logger"
	"unibot/internal/model"
	"unibot/internal/report"
	"unibot/internal/timesheet"
)

const dateLayout = "2006-01-02"

// HolidayFunc supplies the holiday list for a year. The default wraps
// calendar.Holidays; config may override specific years.
type HolidayFunc func(year int) []time.Time

type ReportService struct {
	store    Store
	msgr     Messenger
	holidays HolidayFunc
	admins   map[string]struct{}
}

func NewReportService(store Store, msgr Messenger, holidays HolidayFunc, adminCodes []string) *ReportService {
	admins := make(map[string]struct{}, len(adminCodes))
	for _, c := range adminCodes {
		admins[c] = struct{}{}
	}
	if holidays == nil {
		holidays = calendar.Holidays
	}
	return &ReportService{store: store, msgr: msgr, holidays: holidays, admins: admins}
}

// Funcionario resolves the caller's employee row for the unicheck command.
func (s *ReportService) Funcionario(ctx context.Context, alias string) (*model.Funcionario, error) {
	f, err := s.store.FuncionarioByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrUnknownAlias
	}
	return f, nil
}

// SelfReport builds the caller's compliance report for the period. Self
// reports always render, compliant or not; the bot posts the sections.
func (s *ReportService) SelfReport(ctx context.Context, alias string, p Period) ([]report.Section, error) {
	f, err := s.Funcionario(ctx, alias)
	if err != nil {
		return nil, err
	}
	sections, _, err := s.buildSections(ctx, *f, p)
	return sections, err
}

// BroadcastResult is what the administrator sees after a broadcast run.
type BroadcastResult struct {
	RunID        string
	Total        int
	Compliant    int
	NonCompliant []string // employee names with a monthly shortfall
	Failed       int      // employees skipped on error or undeliverable
}

// Broadcast evaluates every active employee for the period and DMs a report
// to each one whose monthly total fails. The caller must resolve to an
// employee on the admin allow-list. One employee's failure never aborts the
// batch; employees are processed strictly in directory order.
func (s *ReportService) Broadcast(ctx context.Context, callerAlias string, p Period) (*BroadcastResult, error) {
	caller, err := s.store.FuncionarioByAlias(ctx, callerAlias)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrAccessDenied
	}
	if _, ok := s.admins[caller.Codigo]; !ok {
		return nil, ErrAccessDenied
	}

	employees, err := s.store.FuncionariosActivos(ctx)
	if err != nil {
		return nil, err
	}

	res := &BroadcastResult{RunID: uuid.NewString(), Total: len(employees)}
	logger.Info("broadcast.start", "run", res.RunID, "admin", caller.Codigo,
		"desde", p.Start.Format(dateLayout), "hasta", p.End.Format(dateLayout), "total", res.Total)

	for _, f := range employees {
		sections, monthly, err := s.buildSections(ctx, f, p)
		if err != nil {
			logger.Error("broadcast.skip", "run", res.RunID, "codigo", f.Codigo, "err", err)
			res.Failed++
			continue
		}
		if monthly.Summary.Pass {
			res.Compliant++
			continue
		}
		res.NonCompliant = append(res.NonCompliant, f.Nombre)

		userID, err := s.msgr.ResolveUser(ctx, f.AliasSlack)
		if err != nil {
			logger.Error("broadcast.resolve", "run", res.RunID, "codigo", f.Codigo, "err", err)
			res.Failed++
			continue
		}
		if userID == "" {
			logger.Warn("broadcast.no_user", "run", res.RunID, "codigo", f.Codigo, "alias", f.AliasSlack)
			res.Failed++
			continue
		}
		if err := s.msgr.SendReport(ctx, userID, sections); err != nil {
			logger.Error("broadcast.send", "run", res.RunID, "codigo", f.Codigo, "err", err)
			res.Failed++
		}
	}

	logger.Info("broadcast.done", "run", res.RunID, "compliant", res.Compliant,
		"non_compliant", len(res.NonCompliant), "failed", res.Failed)
	return res, nil
}

// buildSections runs the full pipeline for one employee: working days,
// batched minutes, daily records, week grouping, monthly aggregate, sections.
func (s *ReportService) buildSections(ctx context.Context, f model.Funcionario, p Period) ([]report.Section, timesheet.Monthly, error) {
	rotation := calendar.Rotation(f.TipoLibre)
	if !rotation.Valid() {
		return nil, timesheet.Monthly{}, fmt.Errorf("funcionario %s: %w (%q)", f.Codigo, ErrInvalidRotation, f.TipoLibre)
	}

	holidays := calendar.NewHolidaySet(s.holidays(p.Start.Year()))
	days := calendar.WorkingDays(p.Start, p.End, rotation, holidays)
	excludedSat, excludedHol := countExclusions(p, rotation, holidays)

	minutes, err := s.store.MinutesByDay(ctx, f.Codigo, p.Start, p.End)
	if err != nil {
		return nil, timesheet.Monthly{}, err
	}

	records := make([]timesheet.DailyRecord, 0, len(days))
	for _, d := range days {
		records = append(records, timesheet.NewDailyRecord(d, minutes[d.Format(dateLayout)]))
	}

	weeks := timesheet.GroupByWeek(records)
	monthly := timesheet.MonthlySummary(records, excludedSat, excludedHol)
	header := report.Header{
		EmployeeName: f.Nombre,
		EmployeeCode: f.Codigo,
		Rotation:     rotation,
		PeriodStart:  p.Start,
		PeriodEnd:    p.End,
		WorkingDays:  len(days),
	}
	return report.Build(header, weeks, monthly), monthly, nil
}

// countExclusions tallies the rest Saturdays and the non-Sunday holidays
// inside the period. Sundays are structural and never reported as excluded.
func countExclusions(p Period, rotation calendar.Rotation, holidays calendar.HolidaySet) (saturdays, hols int) {
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		switch {
		case holidays.Contains(d):
			hols++
		case calendar.IsRestSaturday(d, rotation):
			saturdays++
		}
	}
	return saturdays, hols
}
