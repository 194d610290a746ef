package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"dqcli/internal/config"
	"dqcli/internal/infrastructure"
	"dqcli/internal/services"
	transport "dqcli/internal/transport/http"
)

// Version is stamped at build time.
var Version = "dev"

// Application wires configuration, logging, telemetry, the validation
// service, and the HTTP server together.
type Application struct {
	cfg       *config.Config
	logger    *slog.Logger
	logClose  func() error
	telemetry *infrastructure.Telemetry
	server    *http.Server
}

// NewApplication builds a ready-to-run application from the environment.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, logClose, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	telemetry, err := infrastructure.InitTelemetry(cfg.Telemetry, logger)
	if err != nil {
		logClose()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	var metrics *infrastructure.RunMetrics
	if telemetry.Meter != nil {
		metrics, err = infrastructure.NewRunMetrics(telemetry.Meter)
		if err != nil {
			logClose()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirs(); err != nil {
		logClose()
		return nil, err
	}

	service := services.NewValidationService(logger, paths, metrics, cfg.Validation.Delimiter())
	router := transport.NewRouter(transport.RouterOptions{
		Logger:         logger,
		Config:         cfg,
		Service:        service,
		Version:        Version,
		MetricsHandler: telemetry.PrometheusHTTP,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		cfg:       cfg,
		logger:    logger,
		logClose:  logClose,
		telemetry: telemetry,
		server:    server,
	}, nil
}

// Run serves HTTP until SIGINT/SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	defer a.logClose()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server starting", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if err := a.telemetry.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}
