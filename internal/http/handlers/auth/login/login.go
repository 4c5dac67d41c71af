// Package login реализует HTTP-обработчик входа пользователя.
//
// При успехе участник сохраняется в cookie-сессии, а в ответе возвращаются
// профиль пользователя и bearer-токен для клиентов без cookie.
package login

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/webshop/internal/http/request"
	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/lib/sl"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Handler обрабатывает вход.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions SessionStore
}

// Response профиль вошедшего пользователя и его токен.
type Response struct {
	models.UserProfile
	Token string `json:"token"`
}

// New создаёт Handler.
func New(log *slog.Logger, service Service, sessions SessionStore) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Учётные данные"
// @Success 200 {object} login.Response
// @Failure 400 {object} response.ErrorResponse "Не указаны логин или пароль"
// @Failure 401 {object} response.ErrorResponse "Неверный логин или пароль"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("login attempt", slog.String("username", req.Username))

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	if err := h.sessions.Save(w, r, res.Principal); err != nil {
		log.Error("failed to save session", sl.Err(err))
		response.RenderError(w, r, log, err)
		return
	}

	render.JSON(w, r, Response{UserProfile: res.Profile, Token: res.Token})
}
