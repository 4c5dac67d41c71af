// Package create реализует HTTP-обработчик добавления товара в каталог.
//
// Handler принимает JSON с данными товара, валидирует его и возвращает созданную
// запись со статусом 201 и заголовком Location.
package create

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler создаёт товары.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику создания товара.
type Service interface {
	CreateArticle(ctx context.Context, in models.ArticleInput) (*models.Article, error)
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
// @Summary Создать товар
// @Description Доступно редактору и администратору.
// @Tags Articles
// @Accept json
// @Produce json
// @Param request body models.ArticleInput true "Данные товара"
// @Success 201 {object} models.Article
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /articles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.ArticleInput
	if err := request.DecodeJSON(r, &in); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if body, ok := request.Validate(h.validate, in); !ok {
		log.Info("validation failed", slog.String("error", body.Error))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, body)
		return
	}

	article, err := h.service.CreateArticle(r.Context(), in)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	log.Info("article created", slog.Int64("id", article.ID))
	w.Header().Set("Location", fmt.Sprintf("/api/articles/%d", article.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, article)
}
