// Package remove реализует HTTP-обработчик удаления заказа.
//
// Подтверждённый заказ удалить нельзя, его нужно сначала отменить.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
)

// Handler удаляет заказы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику удаления заказа.
type Service interface {
	DeleteOrder(ctx context.Context, id int64) error
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить заказ
// @Description Доступно только администратору.
// @Tags Orders
// @Param id path int true "ID заказа"
// @Success 204
// @Failure 400 {object} response.ErrorResponse "Заказ подтверждён"
// @Failure 404 {object} response.ErrorResponse
// @Router /orders/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("order deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
