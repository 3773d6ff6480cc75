package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		MaxFrameBytes   int64         `yaml:"max_frame_bytes"`
	} `yaml:"server"`

	Stream struct {
		WindowSize       time.Duration `yaml:"window_size"`
		UpdateInterval   time.Duration `yaml:"update_interval"`
		CompressionRatio float64       `yaml:"compression_ratio"`
		FrameRates       []int         `yaml:"frame_rates"`
		ColorDepths      []int         `yaml:"color_depths"`
		QueueSize        int           `yaml:"queue_size"`
		Resolutions      []struct {
			Width  int `yaml:"width"`
			Height int `yaml:"height"`
		} `yaml:"resolutions"`
	} `yaml:"stream"`

	Capture struct {
		Strategy string `yaml:"strategy"`
		Width    int    `yaml:"width"`
		Height   int    `yaml:"height"`
		FPS      int    `yaml:"fps"`
	} `yaml:"capture"`

	Transport struct {
		ServerURL        string        `yaml:"server_url"`
		ClientName       string        `yaml:"client_name"`
		HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxReconnectWait time.Duration `yaml:"max_reconnect_wait"`
	} `yaml:"transport"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		JaegerURL   string  `yaml:"jaeger_url"`
		Environment string  `yaml:"environment"`
		SampleRate  float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`

	RateLimiting struct {
		Enabled bool `yaml:"enabled"`

		HTTP struct {
			RequestsPerSecond float64 `yaml:"requests_per_second"`
			Burst             int     `yaml:"burst"`
		} `yaml:"http"`

		WebSocket struct {
			ConnectionsPerMinute int `yaml:"connections_per_minute"`
			Burst                int `yaml:"burst"`
		} `yaml:"websocket"`
	} `yaml:"rate_limiting"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	// Server
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be > 0")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}
	if c.Server.MaxFrameBytes <= 0 {
		return fmt.Errorf("server.max_frame_bytes must be > 0")
	}

	// Stream
	if c.Stream.WindowSize <= 0 {
		return fmt.Errorf("stream.window_size must be > 0")
	}
	if c.Stream.UpdateInterval <= 0 {
		return fmt.Errorf("stream.update_interval must be > 0")
	}
	if c.Stream.CompressionRatio <= 0 || c.Stream.CompressionRatio > 1 {
		return fmt.Errorf("stream.compression_ratio must be in (0, 1]")
	}
	for _, fps := range c.Stream.FrameRates {
		if fps <= 0 {
			return fmt.Errorf("stream.frame_rates entries must be > 0")
		}
	}
	for _, depth := range c.Stream.ColorDepths {
		if depth <= 0 {
			return fmt.Errorf("stream.color_depths entries must be > 0")
		}
	}
	for _, res := range c.Stream.Resolutions {
		if res.Width <= 0 || res.Height <= 0 {
			return fmt.Errorf("stream.resolutions entries must have positive width and height")
		}
	}

	// Capture
	if c.Capture.FPS <= 0 {
		return fmt.Errorf("capture.fps must be > 0")
	}

	// Transport
	if c.Transport.ServerURL == "" {
		return fmt.Errorf("transport.server_url must not be empty")
	}

	// Monitoring
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort <= 0 {
		return fmt.Errorf("monitoring.prometheus_port must be > 0 when prometheus_enabled=true")
	}

	// Tracing
	if c.Tracing.Enabled {
		if c.Tracing.JaegerURL == "" {
			return fmt.Errorf("tracing.jaeger_url must not be empty when tracing.enabled=true")
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			return fmt.Errorf("tracing.sample_rate must be in [0, 1]")
		}
	}

	// Logging
	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level must not be empty")
	}

	// Auth
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0")
	}

	// Rate limiting
	if c.RateLimiting.Enabled {
		if c.RateLimiting.HTTP.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.http.requests_per_second must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.HTTP.Burst <= 0 {
			return fmt.Errorf("rate_limiting.http.burst must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.WebSocket.ConnectionsPerMinute <= 0 {
			return fmt.Errorf("rate_limiting.websocket.connections_per_minute must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.WebSocket.Burst <= 0 {
			return fmt.Errorf("rate_limiting.websocket.burst must be > 0 when rate limiting is enabled")
		}
	}

	return nil
}

// Load reads configuration from YAML file, applies defaults and env overrides.
func Load(configPath string) (*Config, error) {
	// If file does not exist, fall back to defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns configuration with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = ":8080"
	cfg.Server.ReadTimeout = 60 * time.Second
	cfg.Server.WriteTimeout = 10 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second
	cfg.Server.MaxFrameBytes = 16 * 1024 * 1024

	cfg.Stream.WindowSize = 60 * time.Second
	cfg.Stream.UpdateInterval = 2 * time.Second
	cfg.Stream.CompressionRatio = 0.07
	cfg.Stream.FrameRates = []int{24, 30}
	cfg.Stream.ColorDepths = []int{16, 32}
	cfg.Stream.QueueSize = 4

	cfg.Capture.Strategy = "pattern"
	cfg.Capture.Width = 1280
	cfg.Capture.Height = 720
	cfg.Capture.FPS = 30

	cfg.Transport.ServerURL = "ws://localhost:8080/ingest"
	cfg.Transport.ClientName = "framecast-client"
	cfg.Transport.HandshakeTimeout = 10 * time.Second
	cfg.Transport.WriteTimeout = 10 * time.Second
	cfg.Transport.MaxReconnectWait = 30 * time.Second

	cfg.Monitoring.PrometheusEnabled = true
	cfg.Monitoring.PrometheusPort = 9090

	cfg.Tracing.Enabled = false
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	cfg.Tracing.Environment = "development"
	cfg.Tracing.SampleRate = 1.0

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.Auth.JWTSecret = "change-me-in-production"
	cfg.Auth.TokenTTL = 24 * time.Hour

	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.HTTP.RequestsPerSecond = 50
	cfg.RateLimiting.HTTP.Burst = 100
	cfg.RateLimiting.WebSocket.ConnectionsPerMinute = 60
	cfg.RateLimiting.WebSocket.Burst = 10

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("FRAMECAST_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if url := os.Getenv("FRAMECAST_SERVER_URL"); url != "" {
		c.Transport.ServerURL = url
	}
	if name := os.Getenv("FRAMECAST_CLIENT_NAME"); name != "" {
		c.Transport.ClientName = name
	}
	if level := os.Getenv("FRAMECAST_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if secret := os.Getenv("FRAMECAST_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
}
