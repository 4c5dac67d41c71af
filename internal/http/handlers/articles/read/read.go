// Package read реализует HTTP-обработчик получения товара по идентификатору.
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

// Handler отдаёт один товар.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику чтения товара.
type Service interface {
	GetArticle(ctx context.Context, id int64) (*models.Article, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить товар
// @Tags Articles
// @Produce json
// @Param id path int true "ID товара"
// @Success 200 {object} models.Article
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /articles/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	article, err := h.service.GetArticle(r.Context(), id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	render.JSON(w, r, article)
}
