package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"bbbcli/internal/config"
	"bbbcli/internal/errors"
	"bbbcli/internal/infrastructure"
	customMiddleware "bbbcli/internal/middleware"
	"bbbcli/internal/services"
	handlers "bbbcli/internal/transport/http"
	"bbbcli/internal/validation"
)

// Application represents the dataset web service
type Application struct {
	Config         *config.Config
	Paths          *config.Paths
	Router         *chi.Mux
	Server         *http.Server
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	DatasetService *services.DatasetService
	HealthService  *services.HealthService

	runtimeMetrics *infrastructure.RuntimeMetrics
	logCloser      io.Closer
	startTime      time.Time
}

// Option customizes NewApplication
type Option func(*Application)

// WithLogger replaces the logger built from the logging configuration
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) {
		a.Logger = logger
	}
}

// NewApplication wires configuration, logging, telemetry, services and the
// router. The dataset is not loaded until Start or LoadDataset.
func NewApplication(cfg *config.Config, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("configuration is required", nil)
	}

	a := &Application{
		Config:    cfg,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		logger, closer, err := infrastructure.NewLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.Logger = logger
		a.logCloser = closer
	}

	a.Logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(a.Logger)
	a.Paths = paths

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	a.OTelProviders = providers

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := a.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	loader, err := NewCorpusLoader(a.Config.Pipeline, a.Logger, a.OTelProviders.Meter)
	if err != nil {
		return err
	}

	a.DatasetService = services.NewDatasetService(loader, a.Paths.MatchesDir, a.Logger)
	a.HealthService = services.NewHealthService(config.AppVersion, a.Paths.MatchesDir, a.DatasetService, a.Logger)

	rm, err := infrastructure.RegisterRuntimeMetrics(a.OTelProviders.Meter, a.startTime)
	if err != nil {
		return fmt.Errorf("failed to register runtime metrics: %w", err)
	}
	a.runtimeMetrics = rm

	return nil
}

// setupRouter builds the chi router. Order: RequestID, RealIP, OTel,
// errors (logging and panic recovery), security headers, rate limit.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	errorHandler := errors.NewErrorHandler(a.Logger, false)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return err
	}
	r.Use(otelMiddleware.Handler)

	r.Use(errors.NewErrorMiddleware(errorHandler, a.Logger).Handler)
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// Probes and scrapes stay outside the rate limiter
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	r.Mount("/healthz", healthHandler.Routes())
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		if a.Config.Server.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Server.RateLimit.RPS,
				a.Config.Server.RateLimit.Burst,
				a.Logger,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))
		r.Use(customMiddleware.Compress(5))

		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/api/v1/version", healthHandler.Version)
		r.Mount("/api/v1", handlers.NewDatasetHandler(a.DatasetService, a.Logger, errorHandler).Routes())
	})

	a.Router = r
	return nil
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// LoadDataset performs the initial corpus load. It fails when the matches
// directory is unusable so the service does not start empty by accident.
func (a *Application) LoadDataset(ctx context.Context) error {
	if err := validation.NewFileValidator(a.Logger).ValidateInputDirectory(a.Paths.MatchesDir, a.Config.Pipeline.FilePattern); err != nil {
		return err
	}

	status, err := a.DatasetService.Reload(ctx)
	if err != nil {
		return err
	}

	a.Logger.InfoContext(ctx, "Initial dataset loaded",
		slog.Int("deliveries", status.Deliveries),
		slog.Int("matches", status.Matches),
		slog.String("duration", status.Duration))
	return nil
}

// Start loads the dataset and starts serving. Server failures after start
// cancel ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.Int("port", a.Config.Server.Port),
		slog.String("matches_dir", a.Paths.MatchesDir))

	if err := a.LoadDataset(ctx); err != nil {
		return fmt.Errorf("initial dataset load failed: %w", err)
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
	}

	if a.runtimeMetrics != nil {
		if err := a.runtimeMetrics.Unregister(); err != nil {
			a.Logger.ErrorContext(ctx, "Error unregistering runtime metrics", slog.String("error", err.Error()))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")

	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil && shutdownErr == nil {
			shutdownErr = fmt.Errorf("failed to close log output: %w", err)
		}
	}
	return shutdownErr
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		_ = a.Stop(context.Background())
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
