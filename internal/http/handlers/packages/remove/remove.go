// Package remove реализует HTTP-обработчик удаления пакета подписки.
//
// Пакет без заказов удаляется (204). Пакет, на который ссылаются заказы,
// деактивируется, и в ответ приходит 200 с пояснением.
package remove

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

// Handler удаляет пакеты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику удаления пакета.
type Service interface {
	DeletePackage(ctx context.Context, id int64) (*models.PackageDeletion, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить пакет подписки
// @Tags SubscriptionPackages
// @Produce json
// @Param id path int true "ID пакета"
// @Success 200 {object} models.PackageDeletion "Пакет деактивирован"
// @Success 204 "Пакет удалён"
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptionpackages/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	res, err := h.service.DeletePackage(r.Context(), id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if res.Deactivated {
		log.Info("package deactivated", slog.Int64("id", id))
		render.JSON(w, r, res)
		return
	}
	log.Info("package deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
