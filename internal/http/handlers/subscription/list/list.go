// Package list реализует HTTP-обработчик выборки подписок пользователя
// с поиском, фильтрами, сортировкой и пагинацией.
package list

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

// Handler обрабатывает запросы на получение списка подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки подписок.
type Service interface {
	List(ctx context.Context, userID string, params models.ListParams) (*models.PaginationResult[models.Subscription], error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список подписок
// @Description Страница подписок текущего пользователя. Неизвестные sortBy и sortOrder заменяются значениями по умолчанию.
// @Tags Subscriptions
// @Produce  json
// @Param page query int false "Номер страницы, по умолчанию 1"
// @Param limit query int false "Размер страницы, по умолчанию 10"
// @Param search query string false "Подстрока в названии, описании или категории"
// @Param status query string false "ACTIVE, CANCELLED, PAUSED или TRIAL"
// @Param category query string false "Точное имя категории"
// @Param billingCycle query string false "MONTHLY, YEARLY или WEEKLY"
// @Param sortBy query string false "name, amount, nextBillingDate, createdAt или category"
// @Param sortOrder query string false "asc или desc"
// @Success 200 {object} response.Response{data=models.PaginationResult[models.Subscription]}
// @Failure 400 {object} response.ErrorResponse "Некорректный фильтр"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
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

	q := r.URL.Query()
	params := models.ListParams{
		Page:         q.Get("page"),
		Limit:        q.Get("limit"),
		Search:       q.Get("search"),
		Status:       q.Get("status"),
		Category:     q.Get("category"),
		BillingCycle: q.Get("billingCycle"),
		SortBy:       q.Get("sortBy"),
		SortOrder:    q.Get("sortOrder"),
	}

	result, err := h.service.List(r.Context(), userID, params)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Debug("subscriptions listed",
		slog.Int("count", len(result.Data)),
		slog.Int("total", result.Pagination.Total))
	render.JSON(w, r, response.StatusOKWithData(result))
}
