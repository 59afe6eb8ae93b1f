// Package category реализует справочник категорий подписок. Список
// кэшируется в Redis, создание доступно только администратору.
package category

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// CacheKey — ключ, под которым хранится весь справочник.
const CacheKey = "categories:all"

// Repository определяет методы хранилища категорий.
type Repository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (*models.Category, error)
}

// Cache определяет методы кэша, которые использует сервис.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service управляет справочником категорий.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создаёт сервис. cache может быть nil, тогда список всегда читается из хранилища.
func New(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// List возвращает все категории по алфавиту. Ошибки кэша не прерывают запрос.
func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		var cached []models.Category
		found, err := s.cache.Get(ctx, CacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read categories from cache", sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}

	if s.cache != nil {
		if err = s.cache.Set(ctx, CacheKey, categories, s.ttl); err != nil {
			s.log.Warn("failed to cache categories", sl.Err(err))
		}
	}
	return categories, nil
}

// Create добавляет категорию от имени пользователя с ролью role.
func (s *Service) Create(ctx context.Context, role models.Role, req models.CreateCategoryRequest) (*models.Category, error) {
	if role != models.RoleAdmin {
		return nil, apperr.Forbidden("admin role required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}

	created, err := s.repo.CreateCategory(ctx, models.Category{
		Name:  name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if errors.Is(err, storage.ErrCategoryExists) {
		return nil, apperr.Validation("category already exists")
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err = s.cache.Invalidate(ctx, CacheKey); err != nil {
			s.log.Warn("failed to invalidate categories cache", sl.Err(err))
		}
	}
	s.log.Info("created category", slog.String("id", created.ID), slog.String("name", created.Name))
	return created, nil
}
