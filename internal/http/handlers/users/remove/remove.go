// Package remove реализует HTTP-обработчик удаления пользователя.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/webshop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler удаляет пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление пользователя. actor нужен, чтобы запретить удаление себя.
type Service interface {
	Delete(ctx context.Context, actor *models.Principal, id int64) error
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Tags Users
// @Param id path int true "ID пользователя"
// @Success 204
// @Failure 400 {object} response.ErrorResponse "Нельзя удалить свою учётную запись"
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if err := h.service.Delete(r.Context(), middlewarectx.PrincipalFrom(r.Context()), id); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("user deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
