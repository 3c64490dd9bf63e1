// Package ops serves the operational HTTP endpoint: Prometheus metrics and
// liveness probing, kept off the bot transport.
package ops

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"log/slog"

	"github.com/botwright/teleflow/core/logger"
)

// Server hosts /metrics and /healthz on its own listener.
type Server struct {
	listen  string
	handler http.Handler
	srv     *http.Server
}

// NewServer builds the ops server for the listen address.
func NewServer(listen string, reg *prometheus.Registry) *Server {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &Server{
		listen:  listen,
		handler: r,
		srv: &http.Server{
			Addr:              listen,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		logger.Ops.Info("ops listening",
			slog.String("event", "ops.listen"),
			slog.String("listen", s.listen),
		)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Ops.Error("ops server failed",
				slog.String("event", "ops.serve"),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
