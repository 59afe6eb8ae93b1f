// Package upcoming отдаёт активные подписки с ближайшими списаниями.
package upcoming

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
	"github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Upcoming(ctx context.Context, userID string, days int) ([]models.Subscription, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Ближайшие списания
// @Description Активные подписки со списанием не позже чем через days дней, включая просроченные.
// @Tags Subscriptions
// @Produce  json
// @Param days query int false "Горизонт в днях, по умолчанию 30"
// @Success 200 {object} response.Response{data=[]models.Subscription}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /subscriptions/upcoming [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upcoming"
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

	days := subscription.ParseDays(r.URL.Query().Get("days"))
	subs, err := h.service.Upcoming(r.Context(), userID, days)
	if err != nil {
		log.Error("failed to select upcoming subscriptions", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(subs))
}
