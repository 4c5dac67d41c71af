// Package read реализует HTTP-обработчик получения пакета подписки.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/webshop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler отдаёт один пакет.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику чтения пакета.
type Service interface {
	GetPackage(ctx context.Context, id int64, p *models.Principal) (*models.SubscriptionPackage, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить пакет подписки
// @Tags SubscriptionPackages
// @Produce json
// @Param id path int true "ID пакета"
// @Success 200 {object} models.SubscriptionPackage
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptionpackages/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	pkg, err := h.service.GetPackage(r.Context(), id, middlewarectx.PrincipalFrom(r.Context()))
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	render.JSON(w, r, pkg)
}
