// Package server serves ghpulse over HTTP: a JSON API, the HTML dashboard,
// health probes and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
	"github.com/Sumatoshi-tech/ghpulse/pkg/observability"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render/plotpage"
)

// Default server timeouts.
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// ErrDraining is reported by /readyz once shutdown has begun.
var ErrDraining = errors.New("server is shutting down")

// Accounts reads raw account data. *ghapi.Client implements it.
type Accounts interface {
	Profile(ctx context.Context, handle string) (*ghapi.Profile, error)
	Repositories(ctx context.Context, handle string) ([]ghapi.Repository, error)
}

// Reports builds contribution reports and dashboards. *dashboard.Service implements it.
type Reports interface {
	ContributionReport(ctx context.Context, handle string) (contrib.Report, error)
	Dashboard(ctx context.Context, handle, repoName string) (*dashboard.Dashboard, error)
}

// Options configure a Server.
type Options struct {
	Addr string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Theme of the HTML dashboard.
	Theme plotpage.Theme

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.REDMetrics

	// MetricsHandler serves /metrics. Nil leaves the route unregistered.
	MetricsHandler http.Handler
}

// Server is the ghpulse HTTP server.
type Server struct {
	accounts Accounts
	reports  Reports
	opts     Options
	logger   *slog.Logger
	tracer   trace.Tracer
	draining atomic.Bool
	handler  http.Handler
}

// New creates a Server. Zero option values pick the defaults.
func New(accounts Accounts, reports Reports, opts Options) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}

	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}

	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}

	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	if opts.Theme == "" {
		opts.Theme = plotpage.ThemeLight
	}

	s := &Server{
		accounts: accounts,
		reports:  reports,
		opts:     opts,
		logger:   opts.Logger,
		tracer:   opts.Tracer,
	}

	if s.logger == nil {
		s.logger = observability.Discard()
	}

	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer("ghpulse")
	}

	s.handler = s.routes()

	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, observability.HTTPMiddleware(s.tracer, s.opts.Metrics, h))
	}

	handle("GET /api/users/{handle}", s.handleProfile)
	handle("GET /api/users/{handle}/repos", s.handleRepositories)
	handle("GET /api/users/{handle}/contributions", s.handleContributions)
	handle("GET /users/{handle}", s.handleDashboard)

	mux.Handle("GET /healthz", observability.HealthHandler())
	mux.Handle("GET /readyz", observability.ReadyHandler(s.ready))

	if s.opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.opts.MetricsHandler)
	}

	return mux
}

func (s *Server) ready(context.Context) error {
	if s.draining.Load() {
		return ErrDraining
	}

	return nil
}

// ListenAndServe serves on opts.Addr until ctx is canceled, then drains
// in-flight requests for up to ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}

	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is canceled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- srv.Serve(listener)
	}()

	s.logger.InfoContext(ctx, "http server listening", "addr", listener.Addr().String())

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	s.draining.Store(true)
	s.logger.Info("http server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
