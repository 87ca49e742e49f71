package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyunhan-cho/LT-GDG/internal/api"
	"github.com/hyunhan-cho/LT-GDG/internal/config"
	"github.com/hyunhan-cho/LT-GDG/internal/filtering"
	"github.com/hyunhan-cho/LT-GDG/internal/intent"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/pipeline"
	"github.com/hyunhan-cho/LT-GDG/internal/processor"
	"github.com/hyunhan-cho/LT-GDG/internal/server"
	"github.com/hyunhan-cho/LT-GDG/internal/telemetry"
)

const healthCheckTimeout = 2 * time.Second

// App holds the wired components shared by the CLI commands.
type App struct {
	Config    *config.Config
	Logger    logger.Logger
	Telemetry *telemetry.Provider
	Tables    *pipeline.Tables
	Alerts    *filtering.AlertSystem
	Storage   *StorageComponents
	Batch     *processor.BatchProcessor

	model   intent.LearnedClassifier
	emotion pipeline.EmotionClassifier
	closers []io.Closer
	started time.Time
}

// NewApp wires every component from cfg. tel may be nil to run without
// metrics.
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger, tel *telemetry.Provider) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}

	tables, err := SetupTables(cfg, log)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Logger:    log,
		Telemetry: tel,
		Tables:    tables,
		model:     SetupLearnedClassifier(cfg, log),
		emotion:   SetupEmotion(cfg, log),
		started:   time.Now(),
	}

	var recorder filtering.AlertRecorder
	if tel != nil {
		recorder = tel
	}
	alerts, closers := SetupAlerts(cfg, log, recorder)
	app.Alerts = alerts
	app.closers = append(app.closers, closers...)

	storageComps, err := SetupStorage(ctx, cfg, log)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Storage = storageComps
	app.closers = append(app.closers, storageComps.Closers...)

	procOpts := []processor.Option{}
	if cfg.Service.RateLimit > 0 {
		procOpts = append(procOpts, processor.WithRateLimiter(
			processor.NewRateLimiter(cfg.Service.RateLimit, cfg.Service.Concurrency, log),
		))
	}
	if tel != nil {
		procOpts = append(procOpts, processor.WithRecorder(tel))
	}
	app.Batch = processor.NewBatchProcessor(app.NewPipeline, cfg.Service.Concurrency, log, procOpts...)

	log.Info("Analysis pipeline initialized",
		logger.String("classifier_provider", cfg.Classifier.Provider),
		logger.Bool("emotion_enabled", app.emotion != nil),
		logger.Int("sinks", len(storageComps.Sinks)),
		logger.Int("concurrency", app.Batch.Concurrency()),
	)
	return app, nil
}

// NewPipeline builds a pipeline over the shared tables. Each worker or
// request owns its own pipeline.
func (a *App) NewPipeline() *pipeline.Pipeline {
	opts := []pipeline.Option{
		pipeline.WithLogger(a.Logger),
		pipeline.WithTurnPolicy(TurnPolicy(a.Config)),
		pipeline.WithModelBudget(a.Config.Classifier.Timeout),
		pipeline.WithAlerts(a.Alerts),
		pipeline.WithSinks(a.Storage.Sinks...),
		pipeline.WithSinkTimeout(a.Config.Storage.Timeout),
	}
	if a.model != nil {
		opts = append(opts, pipeline.WithLearnedClassifier(a.model))
	}
	if a.emotion != nil {
		opts = append(opts, pipeline.WithEmotion(a.emotion))
	}
	if a.Telemetry != nil {
		opts = append(opts, pipeline.WithTelemetry(a.Telemetry))
	}
	return pipeline.New(a.Tables, opts...)
}

// ServerConfig maps configuration to the HTTP server settings.
func (a *App) ServerConfig() server.Config {
	return server.Config{
		Port:           a.Config.Service.Port,
		Debug:          a.Config.Service.Debug,
		JWTSecret:      a.Config.Auth.JWTSecret,
		ServiceName:    a.Config.Service.Name,
		ServiceVersion: a.Config.Service.Version,
	}
}

// NewServer builds the HTTP server with every API route registered.
func (a *App) NewServer() *server.Server {
	handlerOpts := []api.HandlerOption{api.WithAlerts(a.Alerts)}
	if a.Storage.History != nil {
		handlerOpts = append(handlerOpts, api.WithHistory(a.Storage.History))
	}
	handler := api.NewHandler(a.NewPipeline, a.Batch, a.Logger, handlerOpts...)

	routeCfg := api.RouteConfig{
		Server:       a.ServerConfig(),
		Started:      a.started,
		HealthChecks: a.HealthChecks(),
	}
	if a.Telemetry != nil {
		routeCfg.Metrics = a.Telemetry.Handler()
	}
	if routeCfg.Server.JWTSecret == "" {
		a.Logger.Warn("auth.jwt_secret is empty, /api/v1 is unauthenticated")
	}

	return server.New(routeCfg.Server, a.Logger, func(router *gin.Engine) {
		api.SetupRoutes(router, handler, routeCfg)
	})
}

// HealthChecks reports the learned classifier and the result database.
func (a *App) HealthChecks() map[string]server.HealthChecker {
	checks := map[string]server.HealthChecker{}
	if a.model != nil {
		model := a.model
		checks["classifier"] = func() server.CheckResult {
			if !model.Available() {
				return server.CheckResult{Status: server.HealthStatusDegraded, Message: "rule-only fallback"}
			}
			return server.CheckResult{Status: server.HealthStatusHealthy}
		}
	}
	if store := a.Storage.History; store != nil {
		checks["database"] = func() server.CheckResult {
			ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				return server.CheckResult{Status: server.HealthStatusUnhealthy, Message: err.Error()}
			}
			return server.CheckResult{Status: server.HealthStatusHealthy}
		}
	}
	return checks
}

// Close releases every connection the app opened.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close: %w", err))
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
