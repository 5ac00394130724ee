// Command derivative serves the symbolic differentiation API.
//
// Usage:
//
//	go run ./cmd/derivative -port 5000
//
// Derivative endpoint: POST /derivative
// Self-check endpoint: GET  /test
// Discovery endpoint:  GET  /
// Health endpoint:     GET  /healthz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/njchilds90/symcalc/internal/config"
	"github.com/njchilds90/symcalc/internal/derivative"
	"github.com/njchilds90/symcalc/internal/httpapi"
	"github.com/njchilds90/symcalc/internal/logging"
)

func main() {
	cfg, err := config.Load("derivative", os.Args[1:])
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

	logger.Info("starting derivative calculator backend server", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	logger.Info("supported functions",
		"polynomials", "x^2, x^3, etc.",
		"trigonometric", "sin(x), cos(x), tan(x)",
		"exponential", "e^x, exp(x)",
		"logarithmic", "ln(x), log(x)",
		"combined", "x^2 * sin(x), e^x / x, etc.")

	h := derivative.NewHandler(logger, cfg.MaxBodyBytes)
	if err := httpapi.Serve(ctx, cfg, h.Routes(), logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
