// Package userremove реализует удаление пользователя администратором.
// Подписки пользователя удаляются каскадно на уровне БД.
package userremove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Remove(ctx context.Context, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Tags Users
// @Produce  json
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.Error("failed to remove user", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.Response{Status: response.StatusOK})
}
