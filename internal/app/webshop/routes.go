// Package webshop собирает HTTP- и gRPC-серверы веб-магазина.
package webshop

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	articlecreate "github.com/magabrotheeeer/webshop/internal/http/handlers/articles/create"
	articlelist "github.com/magabrotheeeer/webshop/internal/http/handlers/articles/list"
	articleread "github.com/magabrotheeeer/webshop/internal/http/handlers/articles/read"
	articleremove "github.com/magabrotheeeer/webshop/internal/http/handlers/articles/remove"
	articleupdate "github.com/magabrotheeeer/webshop/internal/http/handlers/articles/update"
	"github.com/magabrotheeeer/webshop/internal/http/handlers/auth/current"
	"github.com/magabrotheeeer/webshop/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/webshop/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/webshop/internal/http/handlers/health"
	ordercreate "github.com/magabrotheeeer/webshop/internal/http/handlers/orders/create"
	orderlist "github.com/magabrotheeeer/webshop/internal/http/handlers/orders/list"
	orderread "github.com/magabrotheeeer/webshop/internal/http/handlers/orders/read"
	orderremove "github.com/magabrotheeeer/webshop/internal/http/handlers/orders/remove"
	orderstatus "github.com/magabrotheeeer/webshop/internal/http/handlers/orders/status"
	packagecreate "github.com/magabrotheeeer/webshop/internal/http/handlers/packages/create"
	packagelist "github.com/magabrotheeeer/webshop/internal/http/handlers/packages/list"
	packageread "github.com/magabrotheeeer/webshop/internal/http/handlers/packages/read"
	packageremove "github.com/magabrotheeeer/webshop/internal/http/handlers/packages/remove"
	packageupdate "github.com/magabrotheeeer/webshop/internal/http/handlers/packages/update"
	usercreate "github.com/magabrotheeeer/webshop/internal/http/handlers/users/create"
	userlist "github.com/magabrotheeeer/webshop/internal/http/handlers/users/list"
	userremove "github.com/magabrotheeeer/webshop/internal/http/handlers/users/remove"
	userupdate "github.com/magabrotheeeer/webshop/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/webshop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/webshop/internal/lib/jwt"
	"github.com/magabrotheeeer/webshop/internal/lib/session"
	"github.com/magabrotheeeer/webshop/internal/models"
	"github.com/magabrotheeeer/webshop/internal/services/catalog"
	"github.com/magabrotheeeer/webshop/internal/services/order"
	"github.com/magabrotheeeer/webshop/internal/services/user"
	"github.com/magabrotheeeer/webshop/internal/storage/repository"
)

// Deps зависимости обработчиков.
type Deps struct {
	Catalog  *catalog.Service
	Orders   *order.Service
	Users    *user.Service
	Sessions *session.Manager
	Tokens   jwt.Maker
	DB       *repository.Storage
	Limiter  *middlewarectx.RateLimiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Get("/healthz", health.New(logger, d.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.Authenticate(logger, d.Sessions, d.Tokens))

		// Открытые конечные точки
		r.With(d.Limiter.Middleware(logger)).Post("/auth/login", login.New(logger, d.Users, d.Sessions).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger, d.Sessions).ServeHTTP)
		r.Get("/auth/current", current.New(logger, d.Users).ServeHTTP)

		r.Get("/articles", articlelist.New(logger, d.Catalog).ServeHTTP)
		r.Get("/articles/{id}", articleread.New(logger, d.Catalog).ServeHTTP)
		r.Get("/subscriptionpackages", packagelist.New(logger, d.Catalog).ServeHTTP)
		r.Get("/subscriptionpackages/{id}", packageread.New(logger, d.Catalog).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireRole(logger, models.RoleRegularUser))
			r.Get("/orders", orderlist.New(logger, d.Orders).ServeHTTP)
			r.Get("/orders/{id}", orderread.New(logger, d.Orders).ServeHTTP)
			r.With(d.Limiter.Middleware(logger)).Post("/orders", ordercreate.New(logger, d.Orders).ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireRole(logger, models.RoleEditor))
			r.Post("/articles", articlecreate.New(logger, d.Catalog).ServeHTTP)
			r.Put("/articles/{id}", articleupdate.New(logger, d.Catalog).ServeHTTP)
			r.Delete("/articles/{id}", articleremove.New(logger, d.Catalog).ServeHTTP)
			r.Post("/subscriptionpackages", packagecreate.New(logger, d.Catalog).ServeHTTP)
			r.Put("/subscriptionpackages/{id}", packageupdate.New(logger, d.Catalog).ServeHTTP)
			r.Delete("/subscriptionpackages/{id}", packageremove.New(logger, d.Catalog).ServeHTTP)
			r.Put("/orders/{id}/status", orderstatus.New(logger, d.Orders).ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
			r.Delete("/orders/{id}", orderremove.New(logger, d.Orders).ServeHTTP)
			r.Get("/users", userlist.New(logger, d.Users).ServeHTTP)
			r.Post("/users", usercreate.New(logger, d.Users).ServeHTTP)
			r.Put("/users/{id}", userupdate.New(logger, d.Users).ServeHTTP)
			r.Delete("/users/{id}", userremove.New(logger, d.Users).ServeHTTP)
		})
	})
}
