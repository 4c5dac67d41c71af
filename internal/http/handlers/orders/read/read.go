// Package read реализует HTTP-обработчик получения заказа.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler отдаёт один заказ.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику чтения заказа.
type Service interface {
	Get(ctx context.Context, id int64) (*models.OrderDetails, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить заказ
// @Tags Orders
// @Produce json
// @Param id path int true "ID заказа"
// @Success 200 {object} models.OrderDetails
// @Failure 404 {object} response.ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	render.JSON(w, r, order)
}
