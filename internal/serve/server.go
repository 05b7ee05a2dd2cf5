// Package serve runs the development HTTP server over the output root. The
// server and the watch loop run as independent tasks: serving already-built
// output never blocks replanning.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/md2html/internal/logfields"
)

// Server is the dev server: static files, SSE livereload, metrics, health.
type Server struct {
	root     string
	port     int
	hub      *LiveReloadHub
	registry *prom.Registry
}

// New creates a server rooted at the output directory.
func New(root string, port int, hub *LiveReloadHub, registry *prom.Registry) *Server {
	return &Server{root: root, port: port, hub: hub, registry: registry}
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.root)))
	if s.hub != nil {
		mux.Handle("/livereload", s.hub)
	}
	if s.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Dev server listening", logfields.Port(s.port), logfields.Path(s.root))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
