// Package update реализует HTTP-обработчик изменения пакета подписки.
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

// Handler изменяет пакеты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику изменения пакета.
type Service interface {
	UpdatePackage(ctx context.Context, id int64, in models.SubscriptionPackageInput) error
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
// @Summary Изменить пакет подписки
// @Tags SubscriptionPackages
// @Accept json
// @Param id path int true "ID пакета"
// @Param request body models.SubscriptionPackageInput true "Новые данные пакета"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptionpackages/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	var in models.SubscriptionPackageInput
	if err := request.DecodeJSON(r, &in); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if body, ok := request.Validate(h.validate, in); !ok {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, body)
		return
	}

	if err := h.service.UpdatePackage(r.Context(), id, in); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("package updated", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
