package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points ENV_FILE at a missing file and clears the keys Load reads.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "MAX_BODY_BYTES", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("calculator", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 5000 || cfg.Addr() != ":5000" {
		t.Errorf("port = %d, addr = %s", cfg.Port, cfg.Addr())
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "text" {
		t.Errorf("log = %v/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("max body = %d", cfg.MaxBodyBytes)
	}
	if cfg.ReadHeaderTimeout != 5*time.Second || cfg.ReadTimeout != 15*time.Second ||
		cfg.WriteTimeout != 15*time.Second || cfg.IdleTimeout != 60*time.Second {
		t.Errorf("timeouts = %+v", cfg)
	}
	if cfg.Service != "calculator" {
		t.Errorf("service = %q", cfg.Service)
	}
}

func TestLoad_EnvAndFlags(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("derivative", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7000 || cfg.LogFormat != "json" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("env not applied: %+v", cfg)
	}

	cfg, err = Load("derivative", []string{"-port", "8081", "-write-timeout", "2s"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8081 {
		t.Errorf("flag should override env, port = %d", cfg.Port)
	}
	if cfg.WriteTimeout != 2*time.Second {
		t.Errorf("write timeout = %v", cfg.WriteTimeout)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PORT=6001\nLOG_LEVEL=warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)

	cfg, err := Load("integration", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 6001 || cfg.LogLevel != slog.LevelWarn {
		t.Errorf(".env not applied: port=%d level=%v", cfg.Port, cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port env", map[string]string{"PORT": "abc"}, nil},
		{"port range", nil, []string{"-port", "70000"}},
		{"log format", nil, []string{"-log-format", "xml"}},
		{"log level", nil, []string{"-log-level", "loud"}},
		{"body size", nil, []string{"-max-body-bytes", "0"}},
		{"timeout env", map[string]string{"READ_TIMEOUT": "soon"}, nil},
		{"unknown flag", nil, []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load("calculator", tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
