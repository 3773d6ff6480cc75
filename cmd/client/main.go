package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"framecast/internal/core/domain"
	"framecast/internal/core/ports"
	"framecast/internal/core/services"
	"framecast/internal/infrastructure/capture"
	"framecast/internal/infrastructure/encoder"
	"framecast/internal/infrastructure/monitoring"
	"framecast/internal/infrastructure/pipeline"
	"framecast/internal/infrastructure/transport"
	"framecast/pkg/config"
	"framecast/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Quality ladder from the configured resolution catalog
	resolutions := domain.DefaultResolutions
	if len(cfg.Stream.Resolutions) > 0 {
		resolutions = make([]domain.Resolution, len(cfg.Stream.Resolutions))
		for i, r := range cfg.Stream.Resolutions {
			resolutions[i] = domain.Resolution{Width: r.Width, Height: r.Height}
		}
	}
	ladder := domain.BuildQualityLadder(resolutions, domain.LadderOptions{
		FrameRates:       cfg.Stream.FrameRates,
		ColorDepths:      cfg.Stream.ColorDepths,
		CompressionRatio: cfg.Stream.CompressionRatio,
	})
	log.Infow("quality ladder built", "levels", len(ladder),
		"lowest", ladder[0].Bandwidth, "highest", ladder[len(ladder)-1].Bandwidth)

	// Adaptive control loop
	monitor := services.NewBandwidthMonitor(cfg.Stream.WindowSize)
	machine, err := services.NewQualityStateMachine(ladder, log)
	if err != nil {
		log.Fatalw("failed to create quality state machine", "error", err)
	}
	adaptive := services.NewAdaptiveQualityService(monitor, machine, cfg.Stream.UpdateInterval, log)

	// Capture
	captureStrategy, err := capture.NewStrategyBuilder().
		SetStrategyType(cfg.Capture.Strategy).
		SetOption("width", cfg.Capture.Width).
		SetOption("height", cfg.Capture.Height).
		SetOption("fps", cfg.Capture.FPS).
		Build()
	if err != nil {
		log.Fatalw("failed to build capture strategy", "error", err)
	}
	defer captureStrategy.Close()

	// Session token for the ingest endpoint
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	token, err := authService.GenerateToken(cfg.Transport.ClientName)
	if err != nil {
		log.Fatalw("failed to generate session token", "error", err)
	}

	// Transport
	client := transport.NewReconnectingClient(transport.ClientConfig{
		URL:              cfg.Transport.ServerURL,
		Token:            token,
		ClientName:       cfg.Transport.ClientName,
		HandshakeTimeout: cfg.Transport.HandshakeTimeout,
		WriteTimeout:     cfg.Transport.WriteTimeout,
		MaxReconnectWait: cfg.Transport.MaxReconnectWait,
	}, log)
	if err := client.Connect(ctx); err != nil {
		log.Fatalw("failed to connect", "url", cfg.Transport.ServerURL, "error", err)
	}
	defer client.Close()

	// Encoder starts at the lowest quality level
	initial := machine.CurrentLevel()
	jpegEncoder := encoder.NewJPEGEncoder(domain.SessionID(cfg.Transport.ClientName), initial.Profile, log)

	// Observers: encoder reconfigures, capture pacing follows
	machine.RegisterObserver(jpegEncoder)
	machine.RegisterObserver(pipeline.NewPacingObserver(captureStrategy))

	var pipeEncoder ports.FrameEncoder = jpegEncoder
	var pipeWriter ports.FrameWriter = client
	if cfg.Monitoring.PrometheusEnabled {
		collector := monitoring.NewPrometheusCollector()
		machine.RegisterObserver(collector)
		pipeEncoder = monitoring.NewInstrumentedEncoder(jpegEncoder, collector)
		pipeWriter = monitoring.NewInstrumentedWriter(client, collector, domain.SessionID(cfg.Transport.ClientName))

		metricsAddr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
		go func() {
			log.Infow("prometheus metrics enabled", "address", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, promhttp.Handler()); err != nil {
				log.Errorw("metrics endpoint failed", "error", err)
			}
		}()
	}

	pipe := pipeline.New(captureStrategy, pipeEncoder, pipeWriter, monitor, cfg.Stream.QueueSize, log)

	go adaptive.Run(ctx)
	go func() {
		if err := pipe.Run(ctx); err != nil && err != context.Canceled {
			log.Errorw("pipeline stopped", "error", err)
		}
	}()

	log.Infow("streaming started",
		"server", cfg.Transport.ServerURL,
		"capture", cfg.Capture.Strategy,
		"initial_profile", initial.Profile.Resolution.String(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Infow("received shutdown signal", "signal", sig)
	cancel()
}
