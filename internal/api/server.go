package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/texforge/resumed/internal/history"
	"github.com/texforge/resumed/internal/infrastructure/config"
	"github.com/texforge/resumed/internal/infrastructure/database"
	"github.com/texforge/resumed/internal/infrastructure/logging"
	"github.com/texforge/resumed/internal/infrastructure/mqtt"
	"github.com/texforge/resumed/internal/render"
	"github.com/texforge/resumed/internal/resume"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Renderer produces PDFs. *render.Service implements it.
type Renderer interface {
	Render(ctx context.Context, req render.Request) (*render.Result, error)
	InFlight() int64
	Waiting() int64
	Concurrency() int
}

// Fetcher loads resume data from the configured remote source.
type Fetcher interface {
	Fetch(ctx context.Context) (*resume.Resume, error)
}

// HealthChecker is implemented by every optional backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Security config.SecurityConfig
	// WriteTimeout follows the render timeout; zero disables it. Render
	// handlers re-arm it after the render returns, so queue time is excluded.
	WriteTimeout time.Duration
	Logger       *logging.Logger
	Renderer     Renderer
	Fetcher      Fetcher            // nil disables /generate-resume-from-api
	History      history.Repository // nil disables /api/v1/renders
	DB           *database.DB
	MQTT         *mqtt.Client
	// Checks are reported by /api/v1/health, keyed by backend name.
	Checks  map[string]HealthChecker
	Version string
}

// Server is the HTTP API server for resumed.
//
// It manages the HTTP listener, routes and middleware.
// The server is created with New() and started with Start().
type Server struct {
	cfg          config.APIConfig
	secCfg       config.SecurityConfig
	writeTimeout time.Duration
	logger       *logging.Logger
	renderer     Renderer
	fetcher      Fetcher
	history      history.Repository
	db           *database.DB
	mqtt         *mqtt.Client
	checks       map[string]HealthChecker
	version      string
	startTime    time.Time
	server       *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (logger, renderer) plus optional backends
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}

	return &Server{
		cfg:          deps.Config,
		secCfg:       deps.Security,
		writeTimeout: deps.WriteTimeout,
		logger:       deps.Logger,
		renderer:     deps.Renderer,
		fetcher:      deps.Fetcher,
		history:      deps.History,
		db:           deps.DB,
		mqtt:         deps.MQTT,
		checks:       deps.Checks,
		version:      deps.Version,
		startTime:    time.Now(),
	}, nil
}

// Handler returns the fully wired router. Start uses it; tests call it directly.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: Always nil; listener errors are logged
func (s *Server) Start(_ context.Context) error {
	addr := s.addr()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// addr joins host and port; IPv6 hosts are bracketed and an empty host listens on all interfaces.
func (s *Server) addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
