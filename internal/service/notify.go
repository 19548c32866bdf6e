package service

import (
	"context"
	"fmt"

	"unibot/internal/logger"
	"unibot/internal/model"
)

// Notification targets as the GeneXus side spells them in the URL.
const (
	TargetAsignado = "NotificarAsignado"
	TargetCreador  = "NotificarCreador"
)

// NotifyService relays task events into one-line DMs. A broken link in the
// chain (missing task, no target code, no alias, no platform user) is a
// terminal outcome with a descriptive message, not an error.
type NotifyService struct {
	store Store
	msgr  Messenger
}

func NewNotifyService(store Store, msgr Messenger) *NotifyService {
	return &NotifyService{store: store, msgr: msgr}
}

// Notify resolves and messages the recipient for one task. The returned
// string describes the outcome either way; err is reserved for unexpected
// failures (database, messaging API).
func (s *NotifyService) Notify(ctx context.Context, target string, taskID int) (string, error) {
	tarea, err := s.store.TareaByID(ctx, taskID)
	if err != nil {
		return "", err
	}
	if tarea == nil {
		return fmt.Sprintf("la tarea %d no existe", taskID), nil
	}
	outcome, sent, err := s.relay(ctx, target, tarea)
	if err != nil {
		return "", err
	}
	logger.Info("notify.done", "tarea", taskID, "target", target, "sent", sent, "outcome", outcome)
	return outcome, nil
}

// NotifyPending is the batch variant: every task with notificada=false is
// relayed to its assignee and then marked, whether the send landed or ended
// in a benign no-recipient outcome. Only unexpected errors leave the flag
// unset so the task is retried on the next run.
func (s *NotifyService) NotifyPending(ctx context.Context) (sent int, outcomes []string, err error) {
	tareas, err := s.store.TareasNoNotificadas(ctx)
	if err != nil {
		return 0, nil, err
	}
	for _, t := range tareas {
		outcome, delivered, err := s.relay(ctx, TargetAsignado, &t)
		if err != nil {
			logger.Error("notify.pending.skip", "tarea", t.ID, "err", err)
			outcomes = append(outcomes, fmt.Sprintf("tarea %d: %v", t.ID, err))
			continue
		}
		if delivered {
			sent++
		}
		outcomes = append(outcomes, outcome)
		if err := s.store.MarcarNotificada(ctx, t.ID); err != nil {
			logger.Error("notify.pending.mark", "tarea", t.ID, "err", err)
		}
	}
	return sent, outcomes, nil
}

func (s *NotifyService) relay(ctx context.Context, target string, tarea *model.Tarea) (string, bool, error) {
	var codigo, text, role string
	switch target {
	case TargetAsignado:
		codigo, role = tarea.AsignadoCodigo, "asignado"
		text = fmt.Sprintf("📌 Se te asignó la tarea #%d: %s", tarea.ID, tarea.Titulo)
	case TargetCreador:
		codigo, role = tarea.CreadorCodigo, "creador"
		text = fmt.Sprintf("✅ Tu tarea #%d fue finalizada: %s", tarea.ID, tarea.Titulo)
	default:
		return "", false, fmt.Errorf("destino de notificación desconocido: %q", target)
	}

	if codigo == "" {
		return fmt.Sprintf("la tarea %d no tiene %s", tarea.ID, role), false, nil
	}
	f, err := s.store.FuncionarioByCodigo(ctx, codigo)
	if err != nil {
		return "", false, err
	}
	if f == nil {
		return fmt.Sprintf("no existe el funcionario %s (%s de la tarea %d)", codigo, role, tarea.ID), false, nil
	}
	if f.AliasSlack == "" {
		return fmt.Sprintf("el funcionario %s no tiene alias de Slack", f.Codigo), false, nil
	}

	userID, err := s.msgr.ResolveUser(ctx, f.AliasSlack)
	if err != nil {
		return "", false, err
	}
	if userID == "" {
		return fmt.Sprintf("no se encontró el usuario de Slack para el alias %q", f.AliasSlack), false, nil
	}

	if err := s.msgr.SendText(ctx, userID, text); err != nil {
		return "", false, err
	}
	return fmt.Sprintf("notificación de la tarea %d enviada a %s", tarea.ID, f.Nombre), true, nil
}
