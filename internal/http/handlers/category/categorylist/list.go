// Package categorylist отдаёт справочник категорий. Доступен без авторизации.
package categorylist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	List(ctx context.Context) ([]models.Category, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список категорий
// @Tags Categories
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Category}
// @Router /categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	categories, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(categories))
}
