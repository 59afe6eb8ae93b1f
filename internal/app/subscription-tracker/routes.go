// Package subscriptiontracker собирает HTTP API трекера подписок.
package subscriptiontracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	// Регистрация описания API для /docs.
	_ "github.com/magabrotheeeer/subscription-tracker/docs"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/category/categorycreate"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/category/categorylist"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/stats"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/upcoming"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/me"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/userlist"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/userread"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/userremove"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/userrole"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	categoryservice "github.com/magabrotheeeer/subscription-tracker/internal/services/category"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-tracker/internal/services/user"
)

// Deps — всё, что нужно маршрутам.
type Deps struct {
	Storage       health.Pinger
	Tokens        middlewarectx.TokenParser
	Users         middlewarectx.UserGetter
	Subscriptions *subservice.Service
	Categories    *categoryservice.Service
	UserService   *userservice.Service
	Registry      *prometheus.Registry
	RateLimit     config.RateLimit
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	metrics := middlewarectx.NewMetrics(d.Registry)
	limiter := rate.NewLimiter(rate.Limit(d.RateLimit.RPS), d.RateLimit.Burst)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

		// Открытые конечные точки
		r.Get("/health", health.New(logger, d.Storage).ServeHTTP)
		r.Get("/categories", categorylist.New(logger, d.Categories).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Tokens, d.Users, logger))

			r.Get("/me", me.New(logger, d.UserService).ServeHTTP)

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", list.New(logger, d.Subscriptions).ServeHTTP)
				r.Post("/", create.New(logger, d.Subscriptions).ServeHTTP)
				r.Get("/stats", stats.New(logger, d.Subscriptions).ServeHTTP)
				r.Get("/upcoming", upcoming.New(logger, d.Subscriptions).ServeHTTP)
				r.Get("/{id}", read.New(logger, d.Subscriptions).ServeHTTP)
				updateHandler := update.New(logger, d.Subscriptions)
				r.Put("/{id}", updateHandler.ServeHTTP)
				r.Patch("/{id}", updateHandler.ServeHTTP)
				r.Delete("/{id}", remove.New(logger, d.Subscriptions).ServeHTTP)
			})

			// Только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnly(logger))
				r.Post("/categories", categorycreate.New(logger, d.Categories).ServeHTTP)
				r.Get("/users", userlist.New(logger, d.UserService).ServeHTTP)
				r.Get("/users/{id}", userread.New(logger, d.UserService).ServeHTTP)
				r.Put("/users/{id}/role", userrole.New(logger, d.UserService).ServeHTTP)
				r.Delete("/users/{id}", userremove.New(logger, d.UserService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
