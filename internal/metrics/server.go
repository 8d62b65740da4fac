package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 2 * time.Second

// Serve exposes g on /metrics at cfg.Listen until ctx is done. It returns
// immediately when metrics are disabled.
func Serve(ctx context.Context, cfg Config, g prometheus.Gatherer, log logger.Logger) error {
	errFactory := errors.New()

	if !cfg.Enabled() {
		return nil
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return errFactory.Wrap(ErrServe, err).WithData(cfg.Listen)
	}

	return serve(ctx, ln, g, log)
}

func serve(ctx context.Context, ln net.Listener, g prometheus.Gatherer, log logger.Logger) error {
	errFactory := errors.New()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ln)
	}()

	log.Info().Str("addr", ln.Addr().String()).Msg("Serving metrics")

	select {
	case err := <-done:
		return errFactory.Wrap(ErrServe, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errFactory.Wrap(errors.ErrShutdownFailed, err)
	}

	return nil
}
