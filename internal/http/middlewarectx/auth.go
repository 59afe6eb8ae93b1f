// Package middlewarectx содержит HTTP middleware для обработки и проверки JWT токенов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization,
// загружает пользователя из хранилища и в случае успеха добавляет в контекст
// идентификатор пользователя и его роль для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID — ключ для идентификатора пользователя в контексте
	UserID Key = "user_id"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// TokenParser разбирает и проверяет токен доступа.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// UserGetter загружает пользователя по id.
type UserGetter interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// UserIDFrom возвращает идентификатор пользователя из контекста.
func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(UserID).(string)
	return id
}

// RoleFrom возвращает роль пользователя из контекста.
func RoleFrom(ctx context.Context) models.Role {
	role, _ := ctx.Value(Role).(models.Role)
	return role
}

// WithUser кладёт пользователя в контекст так же, как это делает JWTMiddleware.
func WithUser(ctx context.Context, userID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, UserID, userID)
	return context.WithValue(ctx, Role, role)
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(msg))
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Роль берётся из хранилища, а не из токена. Удалённый пользователь с ещё
// действующим токеном получает 401.
func JWTMiddleware(parser TokenParser, users UserGetter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				unauthorized(w, r, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				unauthorized(w, r, "invalid or expired token")
				return
			}

			if _, err = uuid.Parse(claims.UserID); err != nil {
				log.Warn("token subject is not a user id", sl.Err(err))
				unauthorized(w, r, "invalid or expired token")
				return
			}

			user, err := users.GetUser(r.Context(), claims.UserID)
			if errors.Is(err, storage.ErrUserNotFound) {
				log.Warn("token owner not found", sl.UserID(claims.UserID))
				unauthorized(w, r, "unauthorized")
				return
			}
			if err != nil {
				log.Error("failed to load user", sl.Err(err))
				status, body := response.FromError(err)
				render.Status(r, status)
				render.JSON(w, r, body)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user.ID, user.Role)))
		})
	}
}

// AdminOnly пропускает только пользователей с ролью ADMIN.
func AdminOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFrom(r.Context()) != models.RoleAdmin {
				log.Warn("admin role required",
					sl.UserID(UserIDFrom(r.Context())),
					slog.String("path", r.URL.Path))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
