// Command calculator serves the arithmetic API.
//
// Usage:
//
//	go run ./cmd/calculator -port 5000
//
// Calculate endpoint: POST /calculate
// Discovery endpoint: GET  /
// Health endpoint:    GET  /healthz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/njchilds90/symcalc/internal/arithmetic"
	"github.com/njchilds90/symcalc/internal/config"
	"github.com/njchilds90/symcalc/internal/httpapi"
	"github.com/njchilds90/symcalc/internal/logging"
)

func main() {
	cfg, err := config.Load("calculator", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel, cfg.Service)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting calculator backend server", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	logger.Info("routes", "calculate", "POST /calculate", "home", "GET /", "health", "GET /healthz")

	h := arithmetic.NewHandler(logger, cfg.MaxBodyBytes)
	if err := httpapi.Serve(ctx, cfg, h.Routes(), logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
