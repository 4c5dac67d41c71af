// Package list реализует HTTP-обработчик получения списка пакетов подписки.
//
// Неактивные пакеты видят только редактор и администратор.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/webshop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler отдаёт пакеты подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику чтения пакетов.
type Service interface {
	ListPackages(ctx context.Context, p *models.Principal) ([]models.SubscriptionPackage, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пакетов подписки
// @Tags SubscriptionPackages
// @Produce json
// @Success 200 {array} models.SubscriptionPackage
// @Failure 500 {object} response.ErrorResponse
// @Router /subscriptionpackages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	packages, err := h.service.ListPackages(r.Context(), middlewarectx.PrincipalFrom(r.Context()))
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if packages == nil {
		packages = []models.SubscriptionPackage{}
	}
	render.JSON(w, r, packages)
}
