// Package create реализует HTTP-обработчик создания пакета подписки.
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

// Handler создаёт пакеты подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику создания пакета.
type Service interface {
	CreatePackage(ctx context.Context, in models.SubscriptionPackageInput) (*models.SubscriptionPackage, error)
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
// @Summary Создать пакет подписки
// @Description Если isActive не передан, пакет создаётся активным.
// @Tags SubscriptionPackages
// @Accept json
// @Produce json
// @Param request body models.SubscriptionPackageInput true "Данные пакета"
// @Success 201 {object} models.SubscriptionPackage
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /subscriptionpackages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	pkg, err := h.service.CreatePackage(r.Context(), in)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	log.Info("package created", slog.Int64("id", pkg.ID))
	w.Header().Set("Location", fmt.Sprintf("/api/subscriptionpackages/%d", pkg.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, pkg)
}
