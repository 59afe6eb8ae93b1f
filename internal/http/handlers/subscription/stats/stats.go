// Package stats отдаёт сводку расходов по активным подпискам пользователя.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Stats(ctx context.Context, userID string) (*models.SubscriptionStats, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика расходов
// @Description Суммы по циклам списания без приведения, нормированная месячная сумма и разбивка по категориям.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response{data=models.SubscriptionStats}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /subscriptions/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := middlewarectx.UserIDFrom(r.Context())
	if userID == "" {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		log.Error("failed to compute stats", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(stats))
}
