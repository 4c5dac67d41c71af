// Package list реализует HTTP-обработчик получения списка товаров.
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

// Handler отдаёт каталог товаров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику чтения каталога.
type Service interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список товаров
// @Description Возвращает все товары, новые первыми.
// @Tags Articles
// @Produce json
// @Success 200 {array} models.Article
// @Failure 500 {object} response.ErrorResponse
// @Router /articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	articles, err := h.service.ListArticles(r.Context())
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}
	render.JSON(w, r, articles)
}
