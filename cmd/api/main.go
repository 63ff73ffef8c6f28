package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"todoapi/internal/config"
	"todoapi/internal/docstore/backend"
	handlers "todoapi/internal/http/handler"
	"todoapi/internal/http/middleware"
	"todoapi/internal/logger"
	"todoapi/internal/otel"
	"todoapi/internal/repository"
	"todoapi/internal/repository/store"
	"todoapi/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title To-Do API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	policy, err := repository.ParseListErrorPolicy(cfg.Store.ListErrorPolicy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	client, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn("store close failed", zap.Error(err))
		}
	}()

	todoRepo := store.NewTodoStore(client, cfg.Store.Collection,
		store.WithListErrorPolicy(policy),
		store.WithLogger(log),
	)
	// /health must see list failures regardless of the configured policy.
	healthRepo := store.NewTodoStore(client, cfg.Store.Collection,
		store.WithListErrorPolicy(repository.ListPropagateErrors),
	)
	todoSvc := service.NewTodoService(todoRepo)

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	handlers.ConfigureSwagger(cfg.AppHost, "http", "https")
	handlers.RegisterRoutes(app, healthRepo, todoSvc, prometheus.DefaultGatherer)

	addr := ":" + cfg.Port
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", addr),
			zap.String("store_backend", cfg.Store.Backend),
			zap.String("collection", cfg.Store.Collection),
			zap.Stringer("list_error_policy", policy),
		)
		serveErr <- app.Listen(addr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}
