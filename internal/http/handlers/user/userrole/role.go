// Package userrole реализует смену роли пользователя администратором.
package userrole

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

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
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить роль пользователя
// @Tags Users
// @Accept  json
// @Produce  json
// @Param id path string true "ID пользователя"
// @Param request body models.UpdateRoleRequest true "ADMIN или USER"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse "Недопустимая роль"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id}/role [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.role"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.UpdateRoleRequest
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

	// регистр не важен: "admin" и "ADMIN" равнозначны
	role := models.Role(strings.ToUpper(req.Role))
	user, err := h.service.UpdateRole(r.Context(), chi.URLParam(r, "id"), role)
	if err != nil {
		log.Error("failed to update role", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(user))
}
