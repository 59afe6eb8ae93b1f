// Package categorycreate реализует добавление категории администратором.
package categorycreate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Create(ctx context.Context, role models.Role, req models.CreateCategoryRequest) (*models.Category, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать категорию
// @Tags Categories
// @Accept  json
// @Produce  json
// @Param request body models.CreateCategoryRequest true "Новая категория"
// @Success 201 {object} response.Response{data=models.Category}
// @Failure 400 {object} response.ErrorResponse "Пустое или занятое имя"
// @Failure 403 {object} response.ErrorResponse "Нужна роль ADMIN"
// @Router /categories [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateCategoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	category, err := h.service.Create(r.Context(), middlewarectx.RoleFrom(r.Context()), req)
	if err != nil {
		log.Error("failed to create category", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(category))
}
