package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/danmuck/edgegate/internal/observability"
	"github.com/danmuck/edgegate/internal/pathauth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingUpstream = errors.New("gateway: upstream url required")
	ErrInvalidUpstream = errors.New("gateway: invalid upstream url")
)

// ServiceConfig configures one gateway node.
type ServiceConfig struct {
	Name            string
	ListenAddr      string
	UpstreamURL     string
	UpstreamTimeout time.Duration
	CORSOrigins     []string
	AdminListenAddr string
	AdminToken      string

	// PathAuth is the raw matcher configuration in its wire format:
	// <secret>|<prefix>,<prefix>,... Parsed once at startup and again on
	// every admin reload.
	PathAuth string
}

// Gateway service defaults. The filter ships disabled; an empty PathAuth
// string parses to the degenerate matcher and every request passes.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:            "edgegate.local",
		ListenAddr:      ":8080",
		UpstreamURL:     "http://127.0.0.1:8081",
		UpstreamTimeout: 10 * time.Second,
		AdminListenAddr: "",
	}
}

// Service is one running gateway node: a gin front door, the shared
// matcher configuration, and an optional admin control listener.
type Service struct {
	cfg      ServiceConfig
	router   *gin.Engine
	upstream *url.URL
	client   *http.Client
	appeared time.Time

	// matcher holds the current immutable MatcherConfig. Reloads store a
	// whole new value; in-flight requests keep the snapshot they loaded.
	matcher atomic.Pointer[pathauth.MatcherConfig]

	adminClientCount atomic.Int64
	reloadCount      atomic.Int64
}

// NewService constructs a gateway service with default configuration.
func NewService() (*Service, error) {
	return NewServiceWithConfig(DefaultServiceConfig())
}

// NewServiceWithConfig normalizes the configuration, parses the initial
// matcher, and builds the request pipeline. A non-UTF-8 PathAuth string
// is fatal here: the node must not start with an undecodable filter
// config.
func NewServiceWithConfig(cfg ServiceConfig) (*Service, error) {
	defaults := DefaultServiceConfig()
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = defaults.Name
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = defaults.ListenAddr
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = defaults.UpstreamTimeout
	}
	if strings.TrimSpace(cfg.UpstreamURL) == "" {
		return nil, ErrMissingUpstream
	}

	upstream, err := url.Parse(strings.TrimSpace(cfg.UpstreamURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUpstream, cfg.UpstreamURL)
	}
	if upstream.Scheme != "http" && upstream.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUpstream, cfg.UpstreamURL)
	}

	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Service{
		cfg:      cfg,
		router:   r,
		upstream: upstream,
		client:   &http.Client{Timeout: cfg.UpstreamTimeout},
		appeared: time.Now(),
	}
	initial, err := pathauth.Load([]byte(cfg.PathAuth))
	if err != nil {
		return nil, err
	}
	s.matcher.Store(&initial)
	s.registerRoutes()
	return s, nil
}

// HTTPRouter exposes the gin engine for embedding and tests.
func (s *Service) HTTPRouter() *gin.Engine {
	return s.router
}

// Matcher returns the current matcher snapshot. The value is immutable;
// callers keep it for at most one request.
func (s *Service) Matcher() pathauth.MatcherConfig {
	return *s.matcher.Load()
}

// Reload parses a new raw matcher config and swaps it in atomically. On
// decode failure the previous matcher stays in effect; a reload never
// leaves a request observing a half-updated config.
func (s *Service) Reload(raw string) error {
	next, err := pathauth.Load([]byte(raw))
	if err != nil {
		return err
	}
	s.matcher.Store(&next)
	n := s.reloadCount.Add(1)
	log.Info().
		Str("node", s.cfg.Name).
		Bool("enabled", next.Enabled()).
		Int("prefixes", len(next.Prefixes)).
		Int64("reloads", n).
		Msg("matcher_reloaded")
	return nil
}

// Run blocks until signal shutdown, serving HTTP and, when configured,
// the admin control channel.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: s.cfg.ListenAddr, Handler: s.router}

	matcher := s.Matcher()
	log.Info().
		Str("node", s.cfg.Name).
		Str("addr", s.cfg.ListenAddr).
		Str("upstream", s.upstream.String()).
		Bool("filter_enabled", matcher.Enabled()).
		Int("prefixes", len(matcher.Prefixes)).
		Msg("gateway_listening")

	serveErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	controlErr := make(chan error, 1)
	if addr := strings.TrimSpace(s.cfg.AdminListenAddr); addr != "" {
		go func() {
			controlErr <- s.serveAdminControl(ctx, addr)
		}()
	}

	select {
	case err := <-serveErr:
		return err
	case err := <-controlErr:
		if err != nil {
			shutdown(srv)
			return err
		}
		return <-serveErr
	case <-ctx.Done():
		shutdown(srv)
		return <-serveErr
	}
}

func shutdown(srv *http.Server) {
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutCtx)
}
