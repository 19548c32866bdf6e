// Package slackbot runs the Socket Mode event loop, dispatches the plain-text
// DM commands and posts every response as a threaded reply. It also
// implements service.Messenger for the broadcast and notification flows.
package slackbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"unibot/internal/logger"
	"unibot/internal/report"
	"unibot/internal/service"
)

const helpText = "Comandos disponibles:\n" +
	"• `info` / `ayuda` — esta lista\n" +
	"• `unicheck` — tu perfil y credenciales de Uniproduct\n" +
	"• `crm-check-me` — tu control de horas del mes en curso\n" +
	"• `crm-check-me-past` — tu control de horas del mes anterior\n" +
	"• `crm-check-all-admin` — control de todos, mes en curso (solo administradores)\n" +
	"• `crm-check-all-admin-past` — control de todos, mes anterior (solo administradores)"

type Bot struct {
	api       *slack.Client
	sock      *socketmode.Client
	dir       *directory
	reports   *service.ReportService
	botUserID string
}

// New builds the Slack clients and verifies the bot token. The report
// service is injected afterwards because it needs the bot as Messenger.
func New(botToken, appToken string, directoryTTL time.Duration) (*Bot, error) {
	api := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	auth, err := api.AuthTest()
	if err != nil {
		return nil, fmt.Errorf("slack auth test: %w", err)
	}
	return &Bot{
		api:       api,
		sock:      socketmode.New(api),
		dir:       newDirectory(api, directoryTTL),
		botUserID: auth.UserID,
	}, nil
}

func (b *Bot) SetReportService(s *service.ReportService) { b.reports = s }

// Run processes Socket Mode events until the context ends. Each inbound
// message is handled in its own goroutine; the handlers share no mutable
// state beyond the cached directory.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		for evt := range b.sock.Events {
			switch evt.Type {
			case socketmode.EventTypeEventsAPI:
				apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				b.sock.Ack(*evt.Request)
				if msg, ok := apiEvent.InnerEvent.Data.(*slackevents.MessageEvent); ok {
					go b.handleMessage(ctx, msg)
				}
			case socketmode.EventTypeConnectionError:
				logger.Warn("slack connection error", "data", fmt.Sprint(evt.Data))
			}
		}
	}()
	return b.sock.RunContext(ctx)
}

func (b *Bot) handleMessage(ctx context.Context, ev *slackevents.MessageEvent) {
	// Direct messages only; ignore bots, echoes and edits.
	if ev.ChannelType != "im" || ev.BotID != "" || ev.SubType != "" || ev.User == b.botUserID {
		return
	}

	cmd := strings.ToLower(strings.TrimSpace(ev.Text))
	reply := func(text string) {
		if err := b.postThread(ctx, ev.Channel, ev.TimeStamp, text); err != nil {
			logger.Error("slack reply failed", "channel", ev.Channel, "err", err)
		}
	}

	alias, err := b.callerAlias(ctx, ev.User)
	if err != nil {
		logger.Error("caller lookup failed", "user", ev.User, "err", err)
		reply("Lo siento, no pude identificarte en Slack. Intentá de nuevo más tarde.")
		return
	}
	logger.Info("command.received", "alias", alias, "cmd", cmd)

	switch cmd {
	case "info", "ayuda":
		reply(helpText)
	case "unicheck":
		b.runUnicheck(ctx, alias, reply)
	case "crm-check-me":
		b.runSelfReport(ctx, alias, service.CurrentMonthToDate(time.Now()), reply)
	case "crm-check-me-past":
		b.runSelfReport(ctx, alias, service.PreviousMonth(time.Now()), reply)
	case "crm-check-all-admin":
		b.runBroadcast(ctx, alias, service.CurrentMonthToDate(time.Now()), reply)
	case "crm-check-all-admin-past":
		b.runBroadcast(ctx, alias, service.PreviousMonth(time.Now()), reply)
	default:
		reply("Comando no reconocido.\n\n" + helpText)
	}
}

func (b *Bot) runUnicheck(ctx context.Context, alias string, reply func(string)) {
	f, err := b.reports.Funcionario(ctx, alias)
	if err != nil {
		reply(userMessage(err))
		return
	}
	reply(fmt.Sprintf("*%s* (%s)\nLibre tipo %s · alias `%s`\nUsuario Uniproduct: `%s`\nClave: `%s`",
		f.Nombre, f.Codigo, f.TipoLibre, f.AliasSlack, f.Usuario, f.Clave))
}

func (b *Bot) runSelfReport(ctx context.Context, alias string, p service.Period, reply func(string)) {
	sections, err := b.reports.SelfReport(ctx, alias, p)
	if err != nil {
		reply(userMessage(err))
		return
	}
	// One message per section, in order: header, weeks, monthly summary.
	for _, text := range renderSections(sections) {
		reply(text)
	}
}

func (b *Bot) runBroadcast(ctx context.Context, alias string, p service.Period, reply func(string)) {
	res, err := b.reports.Broadcast(ctx, alias, p)
	if err != nil {
		reply(userMessage(err))
		return
	}
	text := fmt.Sprintf("Control enviado.\nFuncionarios evaluados: %d\nAl día: %d\nCon horas pendientes: %d",
		res.Total, res.Compliant, len(res.NonCompliant))
	if len(res.NonCompliant) > 0 {
		text += "\nPendientes: " + strings.Join(res.NonCompliant, ", ")
	}
	if res.Failed > 0 {
		text += fmt.Sprintf("\nNo procesados: %d (ver log)", res.Failed)
	}
	reply(text)
}

// userMessage maps service errors to what the caller should read. Anything
// unexpected becomes a generic failure block carrying the detail.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrUnknownAlias):
		return "Lo siento, no encontré tu usuario en el CRM. Avisá a administración para registrar tu alias."
	case errors.Is(err, service.ErrAccessDenied):
		return "Acceso denegado."
	case errors.Is(err, service.ErrInvalidRotation):
		return "Tu tipo de libre en el CRM no es válido. Avisá a administración."
	default:
		logger.Error("command failed", "err", err)
		return "Ocurrió un error inesperado:\n```" + err.Error() + "```"
	}
}

// callerAlias maps a Slack user id to the alias stored in the CRM: the
// display name when set, the account name otherwise.
func (b *Bot) callerAlias(ctx context.Context, userID string) (string, error) {
	u, err := b.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user info: %w", err)
	}
	if u.Profile.DisplayName != "" {
		return u.Profile.DisplayName, nil
	}
	return u.Name, nil
}

func (b *Bot) postThread(ctx context.Context, channel, threadTS, text string) error {
	_, _, err := b.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false), slack.MsgOptionTS(threadTS))
	return err
}

// ResolveUser implements service.Messenger via the cached directory.
func (b *Bot) ResolveUser(ctx context.Context, alias string) (string, error) {
	return b.dir.Lookup(ctx, alias)
}

// SendText implements service.Messenger: a one-off DM to a user.
func (b *Bot) SendText(ctx context.Context, userID, text string) error {
	channel, err := b.openDM(ctx, userID)
	if err != nil {
		return err
	}
	_, _, err = b.api.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	return err
}

// SendReport implements service.Messenger: the sections go out as discrete
// sequential DMs so ordering is preserved.
func (b *Bot) SendReport(ctx context.Context, userID string, sections []report.Section) error {
	channel, err := b.openDM(ctx, userID)
	if err != nil {
		return err
	}
	for _, text := range renderSections(sections) {
		if _, _, err := b.api.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) openDM(ctx context.Context, userID string) (string, error) {
	channel, _, _, err := b.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return "", fmt.Errorf("open dm with %s: %w", userID, err)
	}
	return channel.ID, nil
}
