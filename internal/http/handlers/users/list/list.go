// Package list реализует HTTP-обработчик получения списка пользователей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler отдаёт пользователей, упорядоченных по полному имени.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение пользователей.
type Service interface {
	List(ctx context.Context) ([]models.UserView, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Доступно только администратору.
// @Tags Users
// @Produce json
// @Success 200 {array} models.UserView
// @Failure 403 {object} response.ErrorResponse
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.List(r.Context())
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if users == nil {
		users = []models.UserView{}
	}
	render.JSON(w, r, users)
}
