// Package httptransport assembles the HTTP surface: middleware pipeline,
// system endpoints, the dispatch routes behind the context injector, and the
// token-guarded admin routes. All collaborators arrive via constructor
// injection - nothing here reaches into ambient state.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dashgate/internal/admin"
	"dashgate/internal/dispatch"
	"dashgate/internal/platform/health"
	"dashgate/internal/platform/middleware"
)

// Config carries the router's transport-level settings.
type Config struct {
	AdminToken     string
	RequestTimeout time.Duration
	Metadata       *middleware.Metadata
}

// NewRouter wires all endpoints with the middleware stack.
func NewRouter(cfg Config, logger *slog.Logger, injector *dispatch.Injector, dispatcher *dispatch.Handler, adminHandler *admin.Handler, healthHandler *health.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	if cfg.Metadata != nil {
		r.Use(cfg.Metadata.Handler)
	}
	r.Use(middleware.Logger(logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.ContentTypeJSON)

	// System endpoints sit outside tenant/module resolution.
	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	// Module routes run behind the context injector.
	r.Group(func(r chi.Router) {
		r.Use(injector.Handler)
		dispatcher.Register(r)
	})

	// Operator routes are token-guarded and skip resolution entirely.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(cfg.AdminToken, logger))
		adminHandler.Register(r)
	})

	return r
}
