// Package status реализует HTTP-обработчик смены статуса заказа.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler меняет статус заказа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику смены статуса.
type Service interface {
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сменить статус заказа
// @Description Допустимые статусы: Pending, Confirmed, Cancelled.
// @Tags Orders
// @Accept json
// @Param id path int true "ID заказа"
// @Param request body models.UpdateOrderStatusRequest true "Новый статус"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /orders/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("order status changed", slog.Int64("id", id), slog.String("status", req.Status))
	w.WriteHeader(http.StatusNoContent)
}
