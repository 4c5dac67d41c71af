// Package update реализует HTTP-обработчик изменения пользователя.
//
// Переданные поля меняются, отсутствующие остаются прежними.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler изменяет пользователей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает изменение пользователя.
type Service interface {
	Update(ctx context.Context, id int64, req models.UpdateUserRequest) error
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
// @Summary Изменить пользователя
// @Tags Users
// @Accept json
// @Param id path int true "ID пользователя"
// @Param request body models.UpdateUserRequest true "Изменяемые поля"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	var req models.UpdateUserRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if body, ok := request.Validate(h.validate, req); !ok {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, body)
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("user updated", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
