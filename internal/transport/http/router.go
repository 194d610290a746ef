package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"dqcli/internal/config"
	"dqcli/internal/middleware"
)

// RouterOptions bundles the collaborators the router wires together.
type RouterOptions struct {
	Logger         *slog.Logger
	Config         *config.Config
	Service        ValidationService
	Version        string
	MetricsHandler http.Handler // nil disables /metrics
}

// NewRouter assembles the HTTP routes and middleware chain.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(opts.Logger))
	r.Use(middleware.Recoverer(opts.Logger))
	if opts.Config.Server.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(
			opts.Config.Server.RateLimitRPS,
			opts.Config.Server.RateLimitBurst,
			opts.Logger)
		r.Use(limiter.Handler)
	}

	health := NewHealthHandler(opts.Logger, opts.Version)
	validate := NewValidateHandler(opts.Service, opts.Logger,
		opts.Config.Validation.MaxUploadSize, opts.Config.Validation.Delimiter())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Handle)
		r.Post("/validate", validate.Handle)
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	return r
}
