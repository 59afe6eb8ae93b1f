// Package subscription содержит бизнес-логику учёта подписок: проверку
// входных данных, выборку с фильтрами и пагинацией, статистику расходов
// и поиск ближайших списаний. Все операции выполняются в пределах
// одного пользователя.
package subscription

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

const resourceName = "Subscription"

// Repository определяет методы хранилища, которые нужны сервису.
type Repository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	GetSubscription(ctx context.Context, userID, id string) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, q models.SubscriptionQuery) ([]models.Subscription, error)
	CountSubscriptions(ctx context.Context, f models.SubscriptionFilter) (int, error)
	UpdateSubscription(ctx context.Context, userID, id string, patch models.SubscriptionPatch) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, userID, id string) error
	ListActiveSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error)
	ListDueSubscriptions(ctx context.Context, userID string, until time.Time) ([]models.Subscription, error)
}

// Service реализует операции над подписками пользователя. Собственного
// состояния между запросами не хранит.
type Service struct {
	repo     Repository
	log      *slog.Logger
	maxLimit int
	now      func() time.Time
}

// New создаёт сервис. maxLimit ограничивает размер страницы, 0 снимает ограничение.
func New(repo Repository, log *slog.Logger, maxLimit int) *Service {
	return &Service{
		repo:     repo,
		log:      log,
		maxLimit: maxLimit,
		now:      time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func requireUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Validation("user id is required")
	}
	return nil
}

// checkIDs проверяет идентификаторы. Не-UUID id не может существовать
// в хранилище, поэтому сразу даёт NotFound.
func checkIDs(userID, id string) error {
	if err := requireUserID(userID); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("subscription id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(resourceName, id)
	}
	return nil
}

func notFound(err error, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(resourceName, id)
	}
	return err
}

// Create проверяет данные, применяет значения по умолчанию и сохраняет подписку.
func (s *Service) Create(ctx context.Context, userID string, req models.CreateSubscriptionRequest) (*models.Subscription, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	sub, err := newSubscription(userID, req)
	if err != nil {
		return nil, err
	}
	sub.ID = uuid.NewString()

	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new subscription", slog.String("id", created.ID), slog.String("user_id", userID))
	return created, nil
}

// Get возвращает подписку пользователя по id.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Subscription, error) {
	if err := checkIDs(userID, id); err != nil {
		return nil, err
	}
	sub, err := s.repo.GetSubscription(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return sub, nil
}

// Update применяет частичное обновление. Сначала проверяются данные,
// затем существование и принадлежность подписки.
func (s *Service) Update(ctx context.Context, userID, id string, req models.UpdateSubscriptionRequest) (*models.Subscription, error) {
	if err := checkIDs(userID, id); err != nil {
		return nil, err
	}
	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}
	if _, err = s.repo.GetSubscription(ctx, userID, id); err != nil {
		return nil, notFound(err, id)
	}

	updated, err := s.repo.UpdateSubscription(ctx, userID, id, patch)
	if err != nil {
		return nil, notFound(err, id)
	}
	s.log.Info("updated subscription", slog.String("id", id), slog.String("user_id", userID))
	return updated, nil
}

// Remove удаляет подписку пользователя.
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if err := checkIDs(userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteSubscription(ctx, userID, id); err != nil {
		return notFound(err, id)
	}
	s.log.Info("removed subscription", slog.String("id", id), slog.String("user_id", userID))
	return nil
}
