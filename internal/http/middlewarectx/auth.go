// Package middlewarectx содержит HTTP middleware аутентификации, проверки роли
// и ограничения частоты запросов.
//
// Authenticate определяет участника запроса по cookie-сессии или JWT в заголовке
// Authorization и кладёт его в контекст. RequireRole пропускает запрос дальше только
// при достаточной роли.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/lib/sl"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey ключ участника запроса в контексте.
const PrincipalKey Key = "principal"

// SessionLoader читает участника из cookie-сессии.
type SessionLoader interface {
	Load(r *http.Request) (*models.Principal, error)
}

// TokenParser разбирает JWT.
type TokenParser interface {
	ParseToken(tokenStr string) (*models.Principal, error)
}

// WithPrincipal кладёт участника в контекст.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFrom возвращает участника из контекста или nil для анонима.
func PrincipalFrom(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(PrincipalKey).(*models.Principal)
	return p
}

// Authenticate возвращает middleware, определяющий участника запроса.
//
// Сначала проверяется сессия, затем заголовок "Authorization: Bearer".
// Запрос без учётных данных проходит дальше анонимно. Недействительный токен
// отклоняется с 401.
func Authenticate(log *slog.Logger, sessions SessionLoader, tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"

			if p, err := sessions.Load(r); err == nil {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenStr == "" {
				log.Info("invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid authorization header"))
				return
			}

			p, err := tokens.ParseToken(tokenStr)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole пропускает запрос только участнику с ролью не ниже minimum.
// Аноним получает 401, участник с недостаточной ролью 403.
func RequireRole(log *slog.Logger, minimum models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r.Context())
			if p == nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Authentication required"))
				return
			}
			if !p.Can(minimum) {
				log.Info("insufficient permissions",
					slog.String("username", p.Username),
					slog.String("role", p.Role.String()),
					slog.String("required", minimum.String()),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("Insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
