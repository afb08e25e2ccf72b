// Package newsletter собирает HTTP-приложение рассылки: хранилище, кеш, брокер,
// сервисы и маршруты.
package newsletter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация swagger-документации.
	_ "github.com/magabrotheeeer/newsletter/docs"
	"github.com/magabrotheeeer/newsletter/internal/config"
	"github.com/magabrotheeeer/newsletter/internal/http/handlers/admin/login"
	"github.com/magabrotheeeer/newsletter/internal/http/handlers/admin/logout"
	"github.com/magabrotheeeer/newsletter/internal/http/handlers/admin/subscribers"
	"github.com/magabrotheeeer/newsletter/internal/http/handlers/health"
	"github.com/magabrotheeeer/newsletter/internal/http/handlers/subscribe"
	"github.com/magabrotheeeer/newsletter/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsletter/internal/http/response"
	"github.com/magabrotheeeer/newsletter/internal/services/auth"
	"github.com/magabrotheeeer/newsletter/internal/services/session"
	"github.com/magabrotheeeer/newsletter/internal/services/subscription"
)

// Services содержит зависимости обработчиков. Cache равен nil, если кеш отключён.
type Services struct {
	Subscriptions *subscription.Service
	Auth          *auth.Service
	Sessions      *session.Manager
	Storage       health.Pinger
	Cache         health.Pinger
	LoginLimiter  *middlewarectx.IPRateLimiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, s Services) {
	// Глобальные middleware
	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
		middlewarectx.SecurityHeaders(cfg.IsProduction()),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error("method not allowed"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/subscribe", subscribe.New(logger, s.Subscriptions).ServeHTTP)

		r.Route("/admin", func(r chi.Router) {
			r.With(middlewarectx.RateLimitMiddleware(s.LoginLimiter, logger)).
				Post("/login", login.New(logger, s.Auth, s.Sessions, cfg.Session).ServeHTTP)

			// Группа с проверкой сессии
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SessionMiddleware(s.Sessions, cfg.Session.CookieName, logger))
				r.Post("/logout", logout.New(logger, s.Sessions, cfg.Session).ServeHTTP)
				r.Get("/subscribers", subscribers.New(logger, s.Subscriptions).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, s.Storage, s.Cache, cfg.TimeoutHTTP).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
