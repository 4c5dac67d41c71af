// Package create реализует HTTP-обработчик оформления заказа.
//
// Handler принимает телефон покупателя, список товаров и необязательный пакет
// подписки. Правила оформления проверяет сервис. Успешный заказ возвращается
// со статусом 201 и заголовком Location. SMS покупателю уходит в фоне.
package create

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler оформляет заказы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику оформления заказа.
type Service interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.OrderDetails, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Description Покупатель может иметь только одну активную подписку и купить каждый товар один раз.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body models.CreateOrderRequest true "Данные заказа"
// @Success 201 {object} models.OrderDetails
// @Failure 400 {object} response.ErrorResponse "Нарушено правило оформления"
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateOrderRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	log.Info("order created", slog.Int64("id", order.ID), slog.String("order_number", order.OrderNumber))
	w.Header().Set("Location", fmt.Sprintf("/api/orders/%d", order.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, order)
}
