// Package reminderscheduler собирает процесс, рассылающий напоминания о списаниях.
package reminderscheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/rabbitmq"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/reminder"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	scheduler *reminder.Scheduler
	interval  time.Duration
	db        *repository.Storage
	conn      *amqp.Connection
	ch        *amqp.Channel
	logger    *slog.Logger
}

// New подключается к брокеру и базе. Брокер ожидается с повторами,
// база должна быть доступна сразу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.ConnectRetries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	publisher := rabbitmq.NewPublisher(ch, rabbitmq.Exchange)
	scheduler := reminder.NewScheduler(db, publisher, rabbitmq.RoutingUpcoming, cfg.Reminder.Days, logger)

	return &App{
		scheduler: scheduler,
		interval:  cfg.Interval,
		db:        db,
		conn:      conn,
		ch:        ch,
		logger:    logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает планировщик и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("reminder scheduler started", slog.Duration("interval", a.interval))
	a.scheduler.Run(ctx, a.interval)

	a.logger.Info("shutting down reminder scheduler")
	closeResources(a.ch, a.conn, a.logger)
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
