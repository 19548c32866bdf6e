// Package service implements the report commands and the task-notification
// relay on top of the CRM store and a messaging client. Identity and "not
// found" conditions resolve into user-facing outcomes here; only unexpected
// failures propagate as errors.
package service

import (
	"context"
	"errors"
	"time"

	"unibot/internal/model"
	"unibot/internal/report"
)

// Store is the CRM surface the services consume; *repository.CRM satisfies
// it. Lookups return (nil, nil) when the row does not exist.
type Store interface {
	FuncionarioByAlias(ctx context.Context, alias string) (*model.Funcionario, error)
	FuncionarioByCodigo(ctx context.Context, codigo string) (*model.Funcionario, error)
	FuncionariosActivos(ctx context.Context) ([]model.Funcionario, error)
	MinutesByDay(ctx context.Context, codigo string, desde, hasta time.Time) (map[string]int, error)
	TareaByID(ctx context.Context, id int) (*model.Tarea, error)
	TareasNoNotificadas(ctx context.Context) ([]model.Tarea, error)
	MarcarNotificada(ctx context.Context, id int) error
}

// Messenger abstracts the chat platform. ResolveUser returns "" (no error)
// when the alias has no platform identity.
type Messenger interface {
	ResolveUser(ctx context.Context, alias string) (string, error)
	SendText(ctx context.Context, userID, text string) error
	SendReport(ctx context.Context, userID string, sections []report.Section) error
}

var (
	// ErrUnknownAlias means the caller's alias has no employee row.
	ErrUnknownAlias = errors.New("no hay funcionario registrado para el alias")
	// ErrInvalidRotation means the employee's Saturday rotation is not A/B.
	ErrInvalidRotation = errors.New("tipo de libre inválido")
	// ErrAccessDenied covers both unknown callers and non-admins on
	// broadcast commands; the caller learns nothing more.
	ErrAccessDenied = errors.New("acceso denegado")
)
