package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgetbot/internal/bot"
	"budgetbot/internal/chart"
	"budgetbot/internal/config"
	"budgetbot/internal/dialog"
	"budgetbot/internal/log"
	"budgetbot/internal/report"
	"budgetbot/internal/session"
	"budgetbot/internal/storage"
)

func main() {
	// .env is optional; real environment variables still apply.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open ledger store", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	sessions := session.NewRegistry(cfg.SessionTTL)
	sessions.StartSweep(cfg.SessionSweepInterval)
	defer sessions.StopSweep()

	machine := dialog.NewMachine(sessions, store, time.Now, logger)
	reports := report.NewService(store)
	charts := chart.NewRenderer()

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error("Failed to initialize Telegram API", log.FieldError, err)
		os.Exit(1)
	}

	handler := bot.New(api, machine, reports, charts, time.Now, bot.Options{
		PollTimeout: cfg.PollTimeout,
		Workers:     cfg.HandlerWorkers,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Run(ctx)
	})

	logger.Info("budgetbot started", "db", cfg.SQLiteDBPath)
	if err := g.Wait(); err != nil {
		logger.Error("budgetbot exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("budgetbot stopped gracefully")
}
