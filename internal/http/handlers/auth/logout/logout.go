// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/lib/sl"
)

// SessionStore очищает cookie-сессию.
type SessionStore interface {
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Handler обрабатывает выход.
type Handler struct {
	log      *slog.Logger
	sessions SessionStore
}

// New создаёт Handler.
func New(log *slog.Logger, sessions SessionStore) *Handler {
	return &Handler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Tags Auth
// @Produce json
// @Success 200 {object} response.MessageResponse
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.sessions.Clear(w, r); err != nil {
		log.Error("failed to clear session", sl.Err(err))
		response.RenderError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.Message("Logged out successfully"))
}
