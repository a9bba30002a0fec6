// Package httptransport assembles the chi router from the module handlers.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wellbuddie/internal/platform/metrics"
	"wellbuddie/internal/platform/middleware"
	"wellbuddie/pkg/platform/httputil"
	"wellbuddie/pkg/platform/middleware/requesttime"
	"wellbuddie/pkg/platform/middleware/session"
)

// Module is a handler that mounts public and session-guarded routes.
type Module interface {
	RegisterPublic(r chi.Router)
	Register(r chi.Router)
}

// PublicModule only has routes that need no session.
type PublicModule interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Deps are the cross-cutting pieces every route shares.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Validator session.Validator
	Health    map[string]HealthCheck
	Now       func() time.Time

	// PublicLimit and SessionLimit wrap the public and session route groups.
	// Nil leaves the group unlimited.
	PublicLimit  func(http.Handler) http.Handler
	SessionLimit func(http.Handler) http.Handler
}

const healthTimeout = 2 * time.Second

// NewRouter wires middleware, /health, /metrics and the module routes.
func NewRouter(deps Deps, public []PublicModule, modules ...Module) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger, deps.Metrics))
	if deps.Now != nil {
		r.Use(requesttime.WithClock(deps.Now))
	} else {
		r.Use(requesttime.Middleware)
	}

	r.Get("/health", healthHandler(deps.Health))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if deps.PublicLimit != nil {
			r.Use(deps.PublicLimit)
		}
		for _, m := range public {
			m.Register(r)
		}
		for _, m := range modules {
			m.RegisterPublic(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequireSession(deps.Validator, deps.Logger))
		if deps.SessionLimit != nil {
			r.Use(deps.SessionLimit)
		}
		for _, m := range modules {
			m.Register(r)
		}
	})
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				components[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "ok"
		}
		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status":     overall,
			"components": components,
		})
	}
}
