// Package server exposes signing, verification and pattern rendering over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pentasign "github.com/pentasign/pentasign-sdk"
	"github.com/pentasign/pentasign-sdk/pattern"
	"github.com/pentasign/pentasign-sdk/schema"
	"github.com/pentasign/pentasign-sdk/signing"
	"github.com/pentasign/pentasign-sdk/signing/ports"
)

// Config holds listener and request limits.
type Config struct {
	Addr            string
	MaxDocumentSize int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	NumericSofi     bool
}

// DefaultConfig returns the configuration used when fields are left zero.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxDocumentSize: 32 << 20,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server wires the signing service into an echo router.
type Server struct {
	Echo     *echo.Echo
	config   Config
	service  *signing.SigningService
	sign     pentasign.SignFunc
	renderer *pattern.Renderer
	schemas  *schema.Registry
	archive  ports.BundleRepository
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	extra    []pentasign.Middleware
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithArchive stores every signing result and enables GET /v1/bundles/:digest.
func WithArchive(repo ports.BundleRepository) Option {
	return func(s *Server) { s.archive = repo }
}

// WithSchemaRegistry replaces the default schema registry.
func WithSchemaRegistry(r *schema.Registry) Option {
	return func(s *Server) { s.schemas = r }
}

// WithGatherer exposes the given registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithSignMiddleware appends sign middleware inside the built-in chain.
func WithSignMiddleware(mws ...pentasign.Middleware) Option {
	return func(s *Server) { s.extra = append(s.extra, mws...) }
}

// New builds a server around svc.
func New(cfg Config, svc *signing.SigningService, opts ...Option) (*Server, error) {
	s := &Server{
		config:   withDefaults(cfg),
		service:  svc,
		renderer: pattern.NewRenderer(),
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.schemas == nil {
		reg, err := schema.NewDefaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("build schema registry: %w", err)
		}
		s.schemas = reg
	}

	mws := []pentasign.Middleware{
		pentasign.PanicRecoveryMiddleware(),
		pentasign.LoggingMiddleware(s.logger),
		pentasign.SizeLimitMiddleware(s.config.MaxDocumentSize),
	}
	if s.config.NumericSofi {
		mws = append(mws, pentasign.NumericIdentityMiddleware())
	}
	s.sign = pentasign.Chain(svc.Sign, append(mws, s.extra...)...)

	s.Echo = s.newEcho()
	return s, nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.MaxDocumentSize <= 0 {
		cfg.MaxDocumentSize = def.MaxDocumentSize
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	return cfg
}

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError
	e.Server.ReadTimeout = s.config.ReadTimeout
	e.Server.WriteTimeout = s.config.WriteTimeout

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			s.logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", slog.Group("http", attrs...))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	// Multipart framing adds overhead on top of the document itself.
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", s.config.MaxDocumentSize+1<<20)))

	e.GET("/healthz", s.getHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := e.Group("/v1")
	v1.POST("/sign", s.postSign)
	v1.POST("/verify", s.postVerify)
	v1.GET("/pattern/:digest", s.getPattern)
	v1.GET("/schema", s.listSchemas)
	v1.GET("/schema/:kind", s.getSchema)
	if s.archive != nil {
		v1.GET("/bundles/:digest", s.getBundle)
	}
	return e
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	if err := s.Echo.Start(s.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start echo server: %w", err)
	}
	return nil
}

// Run starts the server and shuts it down when ctx ends.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	s.logger.Info("server listening", "addr", s.config.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Warn("shutting down server")
	if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown echo server: %w", err)
	}
	return nil
}
