package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the operational endpoints of the ETL: liveness, pipeline
// readiness and Prometheus metrics.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer wires /healthz, /readyz and /metrics. The pipeline reports
// readiness through ready; metrics come from gatherer, which is
// prometheus.DefaultGatherer outside tests.
func NewServer(addr string, ready sharedobs.ReadinessChecker, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	routes := http.NewServeMux()
	routes.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	routes.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	routes.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}))

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           logFailures(routes, logger),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       time.Minute,
		},
		logger: logger,
	}
}

// Start listens until Shutdown, then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown drains open connections until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.srv.Handler.ServeHTTP(w, r)
}

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logFailures logs error responses at debug level. Orchestrators poll these
// routes every few seconds, so successes stay quiet.
func logFailures(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if rec.status >= http.StatusBadRequest {
			logger.Debug("http request failed",
				"method", r.Method, "path", r.URL.Path, "status", rec.status)
		}
	})
}
