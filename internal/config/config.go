package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/xunialabs/carbon-dashboard/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Study area, fixed for the process lifetime.
	Region domain.Region

	// Imagery service client configuration.
	EEBaseURL    string
	EEProject    string
	EEToken      string
	EECollection string
	EETimeout    time.Duration
	EECacheSize  int
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	eeTimeout, err := parseDurationEnv("EE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseIntEnv("EE_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	region, err := domain.ParseRegion(envOrDefault("ROI_BBOX", domain.BerkshireTaconic.BBox()))
	if err != nil {
		return nil, fmt.Errorf("ROI_BBOX: %w", err)
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		Region:          region,

		EEBaseURL:    envOrDefault("EE_BASE_URL", "https://earthengine.googleapis.com"),
		EEProject:    os.Getenv("EE_PROJECT"),
		EEToken:      os.Getenv("EE_TOKEN"),
		EECollection: envOrDefault("EE_COLLECTION", "LANDSAT/LC08/C02/T1_L2"),
		EETimeout:    eeTimeout,
		EECacheSize:  cacheSize,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.LogFormat, validation.In("json", "text")),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.EEBaseURL, validation.Required),
		validation.Field(&c.EEProject, validation.Required.Error("EE_PROJECT is required")),
		validation.Field(&c.EEToken, validation.Required.Error("EE_TOKEN is required")),
		validation.Field(&c.EECollection, validation.Required),
		validation.Field(&c.EECacheSize, validation.Min(0)),
	)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
