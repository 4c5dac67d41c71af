// Package current реализует HTTP-обработчик получения текущего пользователя.
package current

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

// Handler отдаёт профиль участника запроса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение профиля.
type Service interface {
	Current(ctx context.Context, p *models.Principal) (*models.UserProfile, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce json
// @Success 200 {object} models.UserProfile
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Router /auth/current [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.current"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profile, err := h.service.Current(r.Context(), middlewarectx.PrincipalFrom(r.Context()))
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	render.JSON(w, r, profile)
}
