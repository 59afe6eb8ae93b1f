// Package user реализует администрирование пользователей и
// сопоставление внешней идентичности с учётной записью.
package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

const resourceName = "User"

// Repository определяет методы хранилища пользователей.
type Repository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Service — операции над пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис пользователей.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("user id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(resourceName, id)
	}
	return nil
}

func notFound(err error, id string) error {
	if errors.Is(err, storage.ErrUserNotFound) {
		return apperr.NotFound(resourceName, id)
	}
	return err
}

// List возвращает всех пользователей.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Get возвращает пользователя по id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return u, nil
}

// Me возвращает пользователя, от имени которого выполняется запрос.
func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Unauthorized("unauthorized")
	}
	u, err := s.repo.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, apperr.Unauthorized("unauthorized")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateRole меняет роль пользователя на ADMIN или USER.
func (s *Service) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperr.Validation("invalid role")
	}
	u, err := s.repo.UpdateUserRole(ctx, id, role)
	if err != nil {
		return nil, notFound(err, id)
	}
	s.log.Info("changed user role", slog.String("id", id), slog.String("role", string(role)))
	return u, nil
}

// Remove удаляет пользователя вместе с его подписками.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return notFound(err, id)
	}
	s.log.Info("removed user", slog.String("id", id))
	return nil
}

// EnsureUser находит пользователя по e-mail или создаёт нового с ролью USER.
// Имя и аватар существующего пользователя не перезаписываются.
func (s *Service) EnsureUser(ctx context.Context, identity models.Identity) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, err
	}

	u, err = s.repo.CreateUser(ctx, models.User{
		ID:     uuid.NewString(),
		Email:  email,
		Name:   identity.Name,
		Avatar: identity.Avatar,
		Role:   models.RoleUser,
	})
	if errors.Is(err, storage.ErrUserExists) {
		// параллельный вход с тем же e-mail успел создать запись
		return s.repo.GetUserByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("registered user", slog.String("id", u.ID))
	return u, nil
}
