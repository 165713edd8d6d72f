package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort             = "8080"
	DefaultFeatureFlagsPath = "feature_flags.json"
	DefaultShutdownTimeout  = 10 * time.Second
)

// ErrNonPositiveTimeout is returned when SHUTDOWN_TIMEOUT is zero or negative
var ErrNonPositiveTimeout = errors.New("shutdown timeout must be positive")

// Config holds server configuration
type Config struct {
	Port             string
	Environment      string // development, production or test
	LogLevel         string
	LogFile          string // empty disables file logging
	FeatureFlagsPath string
	ShutdownTimeout  time.Duration
}

// LoadConfig reads envFile (if it exists) into the environment and builds a Config from it.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	config := &Config{
		Port:             getEnv("PORT", DefaultPort),
		Environment:      strings.ToLower(getEnv("APP_ENV", "production")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          os.Getenv("LOG_FILE"),
		FeatureFlagsPath: getEnv("FEATURE_FLAGS_PATH", DefaultFeatureFlagsPath),
		ShutdownTimeout:  DefaultShutdownTimeout,
	}

	if raw := os.Getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", raw, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", raw, ErrNonPositiveTimeout)
		}
		config.ShutdownTimeout = timeout
	}

	return config, nil
}

// IsDevelopment reports whether error details may be sent to clients
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Addr returns the listen address for Port
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
