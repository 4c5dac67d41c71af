// Package list реализует HTTP-обработчик получения списка заказов.
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

// Handler отдаёт заказы с товарами и пакетом.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику чтения заказов.
type Service interface {
	List(ctx context.Context) ([]models.OrderDetails, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список заказов
// @Description Возвращает заказы, новые первыми.
// @Tags Orders
// @Produce json
// @Success 200 {array} models.OrderDetails
// @Failure 401 {object} response.ErrorResponse
// @Router /orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	orders, err := h.service.List(r.Context())
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if orders == nil {
		orders = []models.OrderDetails{}
	}
	render.JSON(w, r, orders)
}
