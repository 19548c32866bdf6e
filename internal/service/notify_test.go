package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unibot/internal/model"
	"unibot/internal/service"
)

func setupNotify() (*fakeStore, *fakeMessenger, *service.NotifyService) {
	store := &fakeStore{
		funcionarios: []model.Funcionario{
			{Codigo: "F001", Nombre: "Ana", TipoLibre: "A", AliasSlack: "ana", Activo: true},
			{Codigo: "F002", Nombre: "Bruno", TipoLibre: "B", AliasSlack: "", Activo: true},
		},
		tareas: map[int]model.Tarea{
			12: {ID: 12, Titulo: "Migrar facturación", CreadorCodigo: "F002", AsignadoCodigo: "F001"},
			13: {ID: 13, Titulo: "Sin asignar", CreadorCodigo: "F001", AsignadoCodigo: ""},
		},
	}
	msgr := newFakeMessenger()
	msgr.users["ana"] = "U1"
	return store, msgr, service.NewNotifyService(store, msgr)
}

func TestNotify_AssigneeHappyPath(t *testing.T) {
	_, msgr, svc := setupNotify()

	outcome, err := svc.Notify(context.Background(), service.TargetAsignado, 12)
	require.NoError(t, err)
	assert.Contains(t, outcome, "enviada a Ana")

	require.Len(t, msgr.texts["U1"], 1)
	assert.Contains(t, msgr.texts["U1"][0], "#12")
	assert.Contains(t, msgr.texts["U1"][0], "Migrar facturación")
}

func TestNotify_UnknownTaskSendsNothing(t *testing.T) {
	_, msgr, svc := setupNotify()

	outcome, err := svc.Notify(context.Background(), service.TargetAsignado, 99)
	require.NoError(t, err, "a missing task is a terminal outcome, not an error")
	assert.Contains(t, outcome, "la tarea 99 no existe")
	assert.Empty(t, msgr.texts)
}

func TestNotify_CreatorWithoutAlias(t *testing.T) {
	_, msgr, svc := setupNotify()

	outcome, err := svc.Notify(context.Background(), service.TargetCreador, 12)
	require.NoError(t, err)
	assert.Contains(t, outcome, "no tiene alias")
	assert.Empty(t, msgr.texts)
}

func TestNotify_MissingAssigneeCode(t *testing.T) {
	_, msgr, svc := setupNotify()

	outcome, err := svc.Notify(context.Background(), service.TargetAsignado, 13)
	require.NoError(t, err)
	assert.Contains(t, outcome, "no tiene asignado")
	assert.Empty(t, msgr.texts)
}

func TestNotify_UnmappedSlackUser(t *testing.T) {
	_, msgr, svc := setupNotify()
	delete(msgr.users, "ana")

	outcome, err := svc.Notify(context.Background(), service.TargetAsignado, 12)
	require.NoError(t, err)
	assert.Contains(t, outcome, "no se encontró el usuario de Slack")
	assert.Empty(t, msgr.texts)
}

func TestNotify_UnknownTargetIsError(t *testing.T) {
	_, _, svc := setupNotify()

	_, err := svc.Notify(context.Background(), "NotificarNadie", 12)
	assert.Error(t, err)
}

func TestNotifyPending_MarksAllTerminalOutcomes(t *testing.T) {
	store, msgr, svc := setupNotify()

	sent, outcomes, err := svc.NotifyPending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sent, "only task 12 has a reachable assignee")
	assert.Len(t, outcomes, 2)
	assert.ElementsMatch(t, []int{12, 13}, store.marked,
		"benign outcomes are marked too so the batch does not loop on them")
	assert.Len(t, msgr.texts["U1"], 1)
}
