package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"unibot/internal/calendar"
	"unibot/internal/config"
	"unibot/internal/handler"
	applog "unibot/internal/logger"
	"unibot/internal/middleware"
	"unibot/internal/repository"
	"unibot/internal/service"
	"unibot/internal/slackbot"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	applog.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	overrides, err := cfg.HolidayOverrides()
	if err != nil {
		slog.Error("invalid holiday config", "err", err)
		os.Exit(1)
	}
	holidays := func(year int) []time.Time {
		if dates, ok := overrides[year]; ok {
			return dates
		}
		return calendar.Holidays(year)
	}

	bot, err := slackbot.New(cfg.Slack.BotToken, cfg.Slack.AppToken,
		time.Duration(cfg.Slack.DirectoryTTLMin)*time.Minute)
	if err != nil {
		slog.Error("slack client init failed", "err", err)
		os.Exit(1)
	}

	store := repository.New(db)
	reportSvc := service.NewReportService(store, bot, holidays, cfg.Slack.AdminCodes)
	notifySvc := service.NewNotifyService(store, bot)
	bot.SetReportService(reportSvc)

	notifyH := handler.NewNotifyHandler(notifySvc)
	funcionarioH := handler.NewFuncionarioHandler(store)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/funcionarios", funcionarioH.List)
	api := r.Group("/api", middleware.APIAuth(cfg.Server.APISecret))
	api.POST("/notificar-tareas/:target/:taskId", notifyH.NotifyTask)
	api.POST("/notificar-pendientes", notifyH.NotifyPending)

	go func() {
		if err := bot.Run(context.Background()); err != nil {
			slog.Error("slack bot stopped", "err", err)
			os.Exit(1)
		}
	}()

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
