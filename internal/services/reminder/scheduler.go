// Package reminder периодически находит ближайшие списания по всем
// пользователям и публикует напоминания в брокер сообщений.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/billing"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Repository выбирает подписки, по которым нужно напомнить.
type Repository interface {
	ListDueReminders(ctx context.Context, from, until time.Time) ([]models.BillingReminder, error)
	MarkReminded(ctx context.Context, subscriptionID string, billingDate time.Time) error
}

// Publisher отправляет сообщение с ключом маршрутизации.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Scheduler публикует напоминания о списаниях в ближайшие days дней.
type Scheduler struct {
	repo       Repository
	publisher  Publisher
	routingKey string
	days       int
	log        *slog.Logger
	now        func() time.Time
}

// NewScheduler создаёт планировщик. days <= 0 заменяется на 3.
func NewScheduler(repo Repository, publisher Publisher, routingKey string, days int, log *slog.Logger) *Scheduler {
	if days <= 0 {
		days = 3
	}
	return &Scheduler{
		repo:       repo,
		publisher:  publisher,
		routingKey: routingKey,
		days:       days,
		log:        log,
		now:        time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// RunOnce выполняет один проход и возвращает число опубликованных напоминаний.
// Окно начинается с начала текущего дня, просроченные списания не попадают.
// Ошибка публикации одного сообщения не останавливает проход.
// Опубликованное напоминание отмечается в хранилище и больше не отправляется.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	const op = "reminder.RunOnce"

	from := billing.StartOfDay(s.now())
	until := billing.Horizon(s.now(), s.days)

	reminders, err := s.repo.ListDueReminders(ctx, from, until)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	published := 0
	for _, r := range reminders {
		if err = s.publisher.Publish(ctx, s.routingKey, r); err != nil {
			s.log.Error("failed to publish reminder",
				slog.String("subscription_id", r.SubscriptionID), sl.Err(err))
			continue
		}
		published++
		// без отметки напоминание уйдёт повторно на следующем проходе
		if err = s.repo.MarkReminded(ctx, r.SubscriptionID, r.NextBillingDate); err != nil {
			s.log.Error("failed to mark reminder as sent",
				slog.String("subscription_id", r.SubscriptionID), sl.Err(err))
		}
	}
	s.log.Info("reminders published", slog.Int("found", len(reminders)), slog.Int("published", published))
	return published, nil
}

// Run запускает проходы сразу и затем каждые interval до отмены ctx.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("failed to find due subscriptions", sl.Err(err))
		}
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}
