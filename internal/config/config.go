// Package config loads service settings from flags, the environment and an
// optional .env file. Flags win over the environment, which wins over the
// built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = 5000
	DefaultMaxBodyBytes = 1 << 20 // 1 MiB
)

// Config holds the settings shared by every service binary.
type Config struct {
	Service string

	Port         int
	LogLevel     slog.Level
	LogFormat    string
	MaxBodyBytes int64

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Addr is the listen address for Port.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load builds the configuration for service from args (usually
// os.Args[1:]). The .env file named by ENV_FILE (default ".env") is read
// first if it exists; variables already set in the environment are kept.
func Load(service string, args []string) (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("config: PORT: %w", err)
	}
	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", strconv.Itoa(DefaultMaxBodyBytes)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config: MAX_BODY_BYTES: %w", err)
	}
	readTimeout, err := time.ParseDuration(getEnv("READ_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("config: READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("WRITE_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("config: WRITE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Service:           service,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	var level string
	fset := flag.NewFlagSet(service, flag.ContinueOnError)
	fset.IntVar(&cfg.Port, "port", port, "Port to listen on")
	fset.StringVar(&level, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	fset.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")
	fset.Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", maxBody, "Largest accepted request body")
	fset.DurationVar(&cfg.ReadTimeout, "read-timeout", readTimeout, "HTTP read timeout")
	fset.DurationVar(&cfg.WriteTimeout, "write-timeout", writeTimeout, "HTTP write timeout")
	fset.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", shutdownTimeout, "Grace period for in-flight requests on shutdown")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("config: log level %q: %w", level, err)
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("config: port %d out of range", c.Port)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("config: log format %q: want text or json", c.LogFormat)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("config: max body bytes must be positive, got %d", c.MaxBodyBytes)
	case c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0:
		return errors.New("config: timeouts must be positive")
	}
	return nil
}
