// Package server собирает HTTP-приложение трекера продлений.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/renewal-tracker/internal/config"
	"github.com/magabrotheeeer/renewal-tracker/internal/http/handlers/account/create"
	"github.com/magabrotheeeer/renewal-tracker/internal/http/handlers/account/list"
	"github.com/magabrotheeeer/renewal-tracker/internal/http/handlers/account/read"
	"github.com/magabrotheeeer/renewal-tracker/internal/http/handlers/account/remove"
	"github.com/magabrotheeeer/renewal-tracker/internal/http/handlers/account/renew"
	"github.com/magabrotheeeer/renewal-tracker/internal/http/handlers/account/stats"
	"github.com/magabrotheeeer/renewal-tracker/internal/http/handlers/account/update"
	"github.com/magabrotheeeer/renewal-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/renewal-tracker/internal/http/middlewarectx"
)

// AccountService объединяет операции, которые нужны обработчикам.
type AccountService interface {
	create.Service
	list.Service
	read.Service
	update.Service
	remove.Service
	renew.Service
	stats.Service
}

// Instrumentation оборачивает обработчики сбором метрик.
type Instrumentation interface {
	Middleware(next http.Handler) http.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg config.HTTPServer,
	accounts AccountService,
	checker health.Checker,
	instr Instrumentation,
	metricsHandler http.Handler,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		instr.Middleware,
	)

	r.Get("/health", health.New(logger, checker).ServeHTTP)
	r.Handle("/metrics", metricsHandler)
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimit(logger, cfg.RateLimitRPS, cfg.RateLimitBurst))

		r.Get("/accounts", list.New(logger, accounts).ServeHTTP)
		r.Post("/accounts", create.New(logger, accounts).ServeHTTP)
		r.Get("/accounts/stats", stats.New(logger, accounts).ServeHTTP)
		r.Get("/accounts/{id}", read.New(logger, accounts).ServeHTTP)
		r.Patch("/accounts/{id}", update.New(logger, accounts).ServeHTTP)
		r.Delete("/accounts/{id}", remove.New(logger, accounts).ServeHTTP)
		r.Post("/accounts/{id}/renew", renew.New(logger, accounts).ServeHTTP)
	})
}
