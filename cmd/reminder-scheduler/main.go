package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	reminderscheduler "github.com/magabrotheeeer/subscription-tracker/internal/app/reminder-scheduler"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/logger"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, os.Stdout)
	decimal.MarshalJSONWithoutQuotes = true

	log.Info("starting reminder-scheduler", slog.String("env", cfg.Env), slog.Int("days", cfg.Reminder.Days))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := reminderscheduler.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize reminder scheduler", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("reminder scheduler stopped with error", sl.Err(err))
		os.Exit(1)
	}
}
