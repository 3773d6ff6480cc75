package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "empty server address",
			mutate: func(c *Config) { c.Server.Address = "" },
		},
		{
			name:   "zero read timeout",
			mutate: func(c *Config) { c.Server.ReadTimeout = 0 },
		},
		{
			name:   "zero max frame bytes",
			mutate: func(c *Config) { c.Server.MaxFrameBytes = 0 },
		},
		{
			name:   "zero window size",
			mutate: func(c *Config) { c.Stream.WindowSize = 0 },
		},
		{
			name:   "zero update interval",
			mutate: func(c *Config) { c.Stream.UpdateInterval = 0 },
		},
		{
			name:   "compression ratio above one",
			mutate: func(c *Config) { c.Stream.CompressionRatio = 1.5 },
		},
		{
			name:   "negative frame rate",
			mutate: func(c *Config) { c.Stream.FrameRates = []int{-24} },
		},
		{
			name:   "zero capture fps",
			mutate: func(c *Config) { c.Capture.FPS = 0 },
		},
		{
			name:   "empty server url",
			mutate: func(c *Config) { c.Transport.ServerURL = "" },
		},
		{
			name:   "empty jwt secret",
			mutate: func(c *Config) { c.Auth.JWTSecret = "" },
		},
		{
			name: "tracing enabled without jaeger url",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.JaegerURL = ""
			},
		},
		{
			name: "rate limiting enabled without rps",
			mutate: func(c *Config) {
				c.RateLimiting.Enabled = true
				c.RateLimiting.HTTP.RequestsPerSecond = 0
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidate_RateLimitingDisabledAllowsZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.HTTP.RequestsPerSecond = 0
	cfg.RateLimiting.HTTP.Burst = 0
	cfg.RateLimiting.WebSocket.ConnectionsPerMinute = 0
	cfg.RateLimiting.WebSocket.Burst = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected config to be valid when rate limiting disabled, got: %v", err)
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address, got %q", cfg.Server.Address)
	}
}

func TestLoad_ReadsYAMLAndAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("stream:\n  window_size: 30s\n  update_interval: 1s\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Stream.WindowSize != 30*time.Second {
		t.Fatalf("expected window size override, got %v", cfg.Stream.WindowSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected log level override, got %q", cfg.Logging.Level)
	}
	// untouched sections keep their defaults
	if cfg.Capture.FPS != 30 {
		t.Fatalf("expected default capture fps, got %d", cfg.Capture.FPS)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FRAMECAST_SERVER_ADDRESS", ":9999")
	t.Setenv("FRAMECAST_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":9999" {
		t.Fatalf("expected env override for address, got %q", cfg.Server.Address)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env override for log level, got %q", cfg.Logging.Level)
	}
}
