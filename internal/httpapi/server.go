package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/njchilds90/symcalc/internal/calcerr"
	"github.com/njchilds90/symcalc/internal/config"
)

// CheckCanceled returns an error once ctx is done. Handlers call it before
// starting a computation nobody is waiting for.
func CheckCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return calcerr.Wrap(calcerr.Internal, "Request cancelled", err)
	}
	return nil
}

// Health answers liveness probes.
func Health(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": service,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// NewServer builds an http.Server for cfg. handler is wrapped in Stack.
func NewServer(cfg *config.Config, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           Stack(handler, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}

// Serve listens on cfg's port until ctx is done, then shuts down, giving
// in-flight requests up to cfg.ShutdownTimeout.
func Serve(ctx context.Context, cfg *config.Config, handler http.Handler, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}
	return serve(ctx, ln, NewServer(cfg, handler, logger), cfg.ShutdownTimeout, logger)
}

func serve(ctx context.Context, ln net.Listener, srv *http.Server, grace time.Duration, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", grace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
