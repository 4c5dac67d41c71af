// Package create реализует HTTP-обработчик создания пользователя.
package create

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler создаёт пользователей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание пользователя.
type Service interface {
	Create(ctx context.Context, req models.CreateUserRequest) (*models.UserView, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать пользователя
// @Description Username и email должны быть уникальны, пароль не короче 6 символов.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "Данные пользователя"
// @Success 201 {object} models.UserView
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateUserRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if body, ok := request.Validate(h.validate, req); !ok {
		log.Info("validation failed", slog.String("error", body.Error))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, body)
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/users/%d", created.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}
