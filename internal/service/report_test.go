package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unibot/internal/calendar"
	"unibot/internal/model"
	"unibot/internal/report"
	"unibot/internal/service"
)

// fakeStore is an in-memory Store double.
type fakeStore struct {
	funcionarios []model.Funcionario
	minutes      map[string]map[string]int // codigo -> date -> minutes
	minutesErr   map[string]error          // codigo -> forced error
	tareas       map[int]model.Tarea
	marked       []int
}

func (f *fakeStore) FuncionarioByAlias(_ context.Context, alias string) (*model.Funcionario, error) {
	for _, fn := range f.funcionarios {
		if fn.AliasSlack == alias {
			fn := fn
			return &fn, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FuncionarioByCodigo(_ context.Context, codigo string) (*model.Funcionario, error) {
	for _, fn := range f.funcionarios {
		if fn.Codigo == codigo {
			fn := fn
			return &fn, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FuncionariosActivos(context.Context) ([]model.Funcionario, error) {
	var out []model.Funcionario
	for _, fn := range f.funcionarios {
		if fn.Activo {
			out = append(out, fn)
		}
	}
	return out, nil
}

func (f *fakeStore) MinutesByDay(_ context.Context, codigo string, _, _ time.Time) (map[string]int, error) {
	if err := f.minutesErr[codigo]; err != nil {
		return nil, err
	}
	return f.minutes[codigo], nil
}

func (f *fakeStore) TareaByID(_ context.Context, id int) (*model.Tarea, error) {
	t, ok := f.tareas[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeStore) TareasNoNotificadas(context.Context) ([]model.Tarea, error) {
	var out []model.Tarea
	for _, t := range f.tareas {
		if !t.Notificada {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) MarcarNotificada(_ context.Context, id int) error {
	f.marked = append(f.marked, id)
	return nil
}

// fakeMessenger records resolutions and sends.
type fakeMessenger struct {
	users   map[string]string // alias -> platform user id
	texts   map[string][]string
	reports map[string]int // user id -> reports delivered
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{users: map[string]string{}, texts: map[string][]string{}, reports: map[string]int{}}
}

func (m *fakeMessenger) ResolveUser(_ context.Context, alias string) (string, error) {
	return m.users[alias], nil
}

func (m *fakeMessenger) SendText(_ context.Context, userID, text string) error {
	m.texts[userID] = append(m.texts[userID], text)
	return nil
}

func (m *fakeMessenger) SendReport(_ context.Context, userID string, _ []report.Section) error {
	m.reports[userID]++
	return nil
}

var march2024 = service.Period{
	Start: calendar.Date(2024, time.March, 1),
	End:   calendar.Date(2024, time.March, 31),
}

func fullCompliance() map[string]int {
	// A single enormous day is enough: monthly pass is evaluated on totals.
	return map[string]int{"2024-03-04": 30000}
}

func setupBroadcast() (*fakeStore, *fakeMessenger, *service.ReportService) {
	store := &fakeStore{
		funcionarios: []model.Funcionario{
			{Codigo: "F001", Nombre: "Ana", TipoLibre: "A", AliasSlack: "ana", Activo: true},
			{Codigo: "F002", Nombre: "Bruno", TipoLibre: "B", AliasSlack: "bruno", Activo: true},
			{Codigo: "F003", Nombre: "Carla", TipoLibre: "A", AliasSlack: "carla", Activo: true},
			{Codigo: "F009", Nombre: "Admin", TipoLibre: "A", AliasSlack: "admin", Activo: false},
		},
		minutes: map[string]map[string]int{"F001": fullCompliance()},
	}
	msgr := newFakeMessenger()
	msgr.users["ana"] = "U1"
	msgr.users["bruno"] = "U2"
	msgr.users["carla"] = "U3"
	msgr.users["admin"] = "U9"
	svc := service.NewReportService(store, msgr, nil, []string{"F009"})
	return store, msgr, svc
}

func TestBroadcast_SendsOnlyToNonCompliant(t *testing.T) {
	_, msgr, svc := setupBroadcast()

	res, err := svc.Broadcast(context.Background(), "admin", march2024)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Compliant)
	assert.Equal(t, []string{"Bruno", "Carla"}, res.NonCompliant)
	assert.Zero(t, res.Failed)

	// Exactly the two non-compliant employees got a report DM.
	assert.Zero(t, msgr.reports["U1"])
	assert.Equal(t, 1, msgr.reports["U2"])
	assert.Equal(t, 1, msgr.reports["U3"])
	assert.NotEmpty(t, res.RunID)
}

func TestBroadcast_DeniedForNonAdmin(t *testing.T) {
	_, _, svc := setupBroadcast()

	_, err := svc.Broadcast(context.Background(), "ana", march2024)
	assert.ErrorIs(t, err, service.ErrAccessDenied)
}

func TestBroadcast_DeniedForUnknownAlias(t *testing.T) {
	_, _, svc := setupBroadcast()

	_, err := svc.Broadcast(context.Background(), "nobody", march2024)
	assert.ErrorIs(t, err, service.ErrAccessDenied)
}

func TestBroadcast_OneFailureDoesNotAbortBatch(t *testing.T) {
	store, msgr, svc := setupBroadcast()
	store.minutesErr = map[string]error{"F002": fmt.Errorf("db unreachable")}

	res, err := svc.Broadcast(context.Background(), "admin", march2024)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed, "Bruno's failure is logged and skipped")
	assert.Equal(t, []string{"Carla"}, res.NonCompliant)
	assert.Equal(t, 1, msgr.reports["U3"], "Carla still gets her report")
}

func TestBroadcast_UnresolvableRecipientCountedAsFailed(t *testing.T) {
	_, msgr, svc := setupBroadcast()
	delete(msgr.users, "bruno")

	res, err := svc.Broadcast(context.Background(), "admin", march2024)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	assert.Contains(t, res.NonCompliant, "Bruno", "shortfall is counted even when undeliverable")
	assert.Zero(t, msgr.reports["U2"])
}

func TestSelfReport_AlwaysRendersEvenWhenCompliant(t *testing.T) {
	_, _, svc := setupBroadcast()

	sections, err := svc.SelfReport(context.Background(), "ana", march2024)
	require.NoError(t, err)
	require.NotEmpty(t, sections)
	assert.Equal(t, report.SectionHeader, sections[0].Type)
	last := sections[len(sections)-1]
	require.Equal(t, report.SectionMonthly, last.Type)
	assert.True(t, last.Monthly.Totals.Pass)
}

func TestSelfReport_UnknownAlias(t *testing.T) {
	_, _, svc := setupBroadcast()

	_, err := svc.SelfReport(context.Background(), "nobody", march2024)
	assert.ErrorIs(t, err, service.ErrUnknownAlias)
}

func TestSelfReport_InvalidRotation(t *testing.T) {
	store, msgr, _ := setupBroadcast()
	store.funcionarios = append(store.funcionarios,
		model.Funcionario{Codigo: "F010", Nombre: "Dana", TipoLibre: "X", AliasSlack: "dana", Activo: true})
	svc := service.NewReportService(store, msgr, nil, nil)

	_, err := svc.SelfReport(context.Background(), "dana", march2024)
	assert.ErrorIs(t, err, service.ErrInvalidRotation)
}

func TestSelfReport_EmptyPeriodOnFirstOfMonth(t *testing.T) {
	_, _, svc := setupBroadcast()
	p := service.CurrentMonthToDate(calendar.Date(2024, time.March, 1))

	sections, err := svc.SelfReport(context.Background(), "ana", p)
	require.NoError(t, err)
	require.Len(t, sections, 2, "header and monthly only, no weeks")
	assert.True(t, sections[1].Monthly.Totals.Pass, "no working days is vacuously compliant")
}

func TestPeriods(t *testing.T) {
	now := calendar.Date(2024, time.March, 15)

	cur := service.CurrentMonthToDate(now)
	assert.Equal(t, calendar.Date(2024, time.March, 1), cur.Start)
	assert.Equal(t, calendar.Date(2024, time.March, 14), cur.End, "today is excluded")

	prev := service.PreviousMonth(now)
	assert.Equal(t, calendar.Date(2024, time.February, 1), prev.Start)
	assert.Equal(t, calendar.Date(2024, time.February, 29), prev.End)

	// Year boundary.
	jan := service.PreviousMonth(calendar.Date(2025, time.January, 10))
	assert.Equal(t, calendar.Date(2024, time.December, 1), jan.Start)
	assert.Equal(t, calendar.Date(2024, time.December, 31), jan.End)
}

func TestBroadcast_CustomHolidayProvider(t *testing.T) {
	store, msgr, _ := setupBroadcast()
	// Declare every March day a holiday: nothing is a working day, everyone
	// is vacuously compliant, nobody gets a message.
	all := func(year int) []time.Time {
		var days []time.Time
		for d := calendar.Date(year, time.March, 1); d.Month() == time.March; d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
		return days
	}
	svc := service.NewReportService(store, msgr, all, []string{"F009"})

	res, err := svc.Broadcast(context.Background(), "admin", march2024)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Compliant)
	assert.Empty(t, res.NonCompliant)
	assert.Empty(t, msgr.reports)
}
