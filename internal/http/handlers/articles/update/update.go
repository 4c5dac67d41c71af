// Package update реализует HTTP-обработчик изменения товара.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler изменяет товары.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику изменения товара.
type Service interface {
	UpdateArticle(ctx context.Context, id int64, in models.ArticleInput) error
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить товар
// @Description Цены в уже оформленных заказах не меняются.
// @Tags Articles
// @Accept json
// @Param id path int true "ID товара"
// @Param request body models.ArticleInput true "Новые данные товара"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /articles/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	var in models.ArticleInput
	if err := request.DecodeJSON(r, &in); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if body, ok := request.Validate(h.validate, in); !ok {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, body)
		return
	}

	if err := h.service.UpdateArticle(r.Context(), id, in); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("article updated", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
