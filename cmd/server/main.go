package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httphandlers "framecast/internal/handlers/http"
	"framecast/internal/core/services"
	"framecast/internal/infrastructure/middleware"
	"framecast/internal/infrastructure/monitoring"
	"framecast/internal/infrastructure/sessions"
	"framecast/pkg/config"
	"framecast/pkg/logger"
	"framecast/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	// Tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "framecast-server",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	// Core services
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	registry := sessions.NewRegistry(cfg.Stream.WindowSize, log)
	collector := monitoring.NewPrometheusCollector()

	// Handlers
	ingestHandler := httphandlers.NewIngestHandler(
		registry,
		collector,
		cfg.Server.ReadTimeout,
		cfg.Server.MaxFrameBytes,
		log,
	)
	watchHandler := httphandlers.NewWatchHandler(registry, cfg.Server.WriteTimeout, log)
	statsHandler := httphandlers.NewStatsHandler(registry)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandlerMiddleware(log))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))

	// Streaming endpoints: token auth plus per-IP connect limiting
	stream := router.Group("/")
	stream.Use(middleware.NewConnectRateLimitMiddleware(cfg))
	stream.Use(middleware.AuthMiddleware(authService))
	ingestHandler.SetupRoutes(stream)
	watchHandler.SetupRoutes(stream)

	// Read-only API
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(authService))
	statsHandler.SetupRoutes(router, api)

	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("prometheus metrics enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("starting framecast server", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("received shutdown signal", "signal", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("tracer shutdown failed", "error", err)
	}
	log.Infow("server stopped", "uptime", time.Since(startTime).String())
}
