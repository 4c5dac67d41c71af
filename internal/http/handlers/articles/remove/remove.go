// Package remove реализует HTTP-обработчик удаления товара.
//
// Товар, который хотя бы раз покупался, удалить нельзя.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
)

// Handler удаляет товары.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику удаления товара.
type Service interface {
	DeleteArticle(ctx context.Context, id int64) error
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить товар
// @Tags Articles
// @Param id path int true "ID товара"
// @Success 204
// @Failure 400 {object} response.ErrorResponse "Товар есть в заказах"
// @Failure 404 {object} response.ErrorResponse
// @Router /articles/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if err := h.service.DeleteArticle(r.Context(), id); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("article deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
