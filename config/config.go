package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIAddr        = ":8080"
	DefaultDashboardAddr  = ":8501"
	DefaultBackendURL     = "https://ecopulse-alpha-1005723035457.europe-west1.run.app"
	DefaultClientTimeout  = 30 * time.Second
	DefaultMaxUploadBytes = 10 << 20
	DefaultRedisAddr      = "localhost:6379"

	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// Config holds the settings for both the API and the dashboard.
type Config struct {
	APIAddr        string        `yaml:"api_addr"`
	DashboardAddr  string        `yaml:"dashboard_addr"`
	BackendURL     string        `yaml:"backend_url"`
	ClientTimeout  time.Duration `yaml:"client_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	RateLimit      RateLimit     `yaml:"rate_limit"`
	Redis          Redis         `yaml:"redis"`
}

// RateLimit is disabled when Requests is 0.
type RateLimit struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
	Backend  string        `yaml:"backend"`
}

type Redis struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		APIAddr:        DefaultAPIAddr,
		DashboardAddr:  DefaultDashboardAddr,
		BackendURL:     DefaultBackendURL,
		ClientTimeout:  DefaultClientTimeout,
		MaxUploadBytes: DefaultMaxUploadBytes,
		RateLimit: RateLimit{
			Window:  time.Minute,
			Backend: RateLimitBackendMemory,
		},
		Redis: Redis{Addr: DefaultRedisAddr},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and ECOPULSE_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.APIAddr = envOrDefault("ECOPULSE_API_ADDR", cfg.APIAddr)
	cfg.DashboardAddr = envOrDefault("ECOPULSE_DASHBOARD_ADDR", cfg.DashboardAddr)
	cfg.BackendURL = envOrDefault("ECOPULSE_BACKEND_URL", cfg.BackendURL)
	cfg.Redis.Addr = envOrDefault("ECOPULSE_REDIS_ADDR", cfg.Redis.Addr)
	cfg.RateLimit.Backend = envOrDefault("ECOPULSE_RATE_LIMIT_BACKEND", cfg.RateLimit.Backend)

	var err error
	if cfg.ClientTimeout, err = envDuration("ECOPULSE_CLIENT_TIMEOUT", cfg.ClientTimeout); err != nil {
		return err
	}
	if cfg.RateLimit.Window, err = envDuration("ECOPULSE_RATE_LIMIT_WINDOW", cfg.RateLimit.Window); err != nil {
		return err
	}
	if cfg.RateLimit.Requests, err = envInt("ECOPULSE_RATE_LIMIT_REQUESTS", cfg.RateLimit.Requests); err != nil {
		return err
	}
	maxUpload, err := envInt("ECOPULSE_MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes))
	if err != nil {
		return err
	}
	cfg.MaxUploadBytes = int64(maxUpload)
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.APIAddr == "" {
		return errors.New("api_addr is required")
	}
	if c.DashboardAddr == "" {
		return errors.New("dashboard_addr is required")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend_url %q is not an absolute URL", c.BackendURL)
	}
	if c.ClientTimeout <= 0 {
		return errors.New("client_timeout must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	if c.RateLimit.Requests < 0 {
		return errors.New("rate_limit.requests must not be negative")
	}
	if c.RateLimit.Requests > 0 {
		if c.RateLimit.Window <= 0 {
			return errors.New("rate_limit.window must be positive")
		}
		switch c.RateLimit.Backend {
		case RateLimitBackendMemory:
		case RateLimitBackendRedis:
			if c.Redis.Addr == "" {
				return errors.New("redis.addr is required for the redis rate limit backend")
			}
		default:
			return fmt.Errorf("unknown rate_limit.backend %q", c.RateLimit.Backend)
		}
	}
	return nil
}

// RateLimitEnabled reports whether requests to /analyze are throttled.
func (c Config) RateLimitEnabled() bool {
	return c.RateLimit.Requests > 0
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
