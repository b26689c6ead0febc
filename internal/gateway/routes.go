package gateway

import (
	"io"
	"net/http"
	"time"

	"github.com/danmuck/edgegate/internal/observability"
	"github.com/danmuck/edgegate/internal/pathauth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// unauthorizedBody is the fixed 401 body clients of the legacy scheme
// expect; it must stay byte-for-byte stable.
const unauthorizedBody = "Unauthorized"

func (s *Service) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(s.appeared).String(),
			"component": "edgegate",
			"version":   "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":     true,
			"uptime":    time.Since(s.appeared).String(),
			"component": "edgegate",
			"version":   "0.0.1",
		})
	})

	// Everything that is not a local endpoint flows through the filter
	// and on to the upstream.
	s.router.NoRoute(s.handleGuardedProxy)
}

// handleGuardedProxy runs the signed-path check on one request and
// translates the decision: reject answers 401 and stops, forward relays
// with the rewritten path, pass relays untouched.
func (s *Service) handleGuardedProxy(c *gin.Context) {
	// The core treats its input as one opaque string; the query string is
	// stripped here and re-attached to the upstream request.
	requestPath := c.Request.URL.Path

	decision := pathauth.Authenticate(requestPath, s.Matcher())
	observability.RecordAuthDecision(s.cfg.Name, decision.Prefix, string(decision.Outcome))

	switch decision.Outcome {
	case pathauth.OutcomeReject:
		log.Warn().
			Str("node", s.cfg.Name).
			Str("path", requestPath).
			Str("prefix", decision.Prefix).
			Str("reason", string(decision.Reason)).
			Msg("pathauth_reject")
		c.Data(http.StatusUnauthorized, "text/plain; charset=utf-8", []byte(unauthorizedBody))
		c.Abort()
	case pathauth.OutcomeForward:
		s.proxyUpstream(c, decision.RewrittenPath)
	default:
		s.proxyUpstream(c, requestPath)
	}
}

// proxyUpstream relays the request to the configured upstream with the
// given path, preserving method, headers, body, and query string.
func (s *Service) proxyUpstream(c *gin.Context, path string) {
	start := time.Now()

	target := *s.upstream
	target.Path = path
	target.RawQuery = c.Request.URL.RawQuery

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target.String(), c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to build upstream request"})
		observability.RecordUpstreamProxy(s.cfg.Name, c.Request.Method, http.StatusBadGateway, time.Since(start), false)
		return
	}
	req.Header = c.Request.Header.Clone()

	resp, err := s.client.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		log.Error().
			Str("node", s.cfg.Name).
			Str("method", c.Request.Method).
			Str("path", path).
			Err(err).
			Msg("upstream_proxy_failed")
		observability.RecordUpstreamProxy(s.cfg.Name, c.Request.Method, http.StatusBadGateway, time.Since(start), false)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read upstream response"})
		observability.RecordUpstreamProxy(s.cfg.Name, c.Request.Method, http.StatusBadGateway, time.Since(start), false)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(resp.StatusCode, contentType, body)
	log.Info().
		Str("node", s.cfg.Name).
		Str("method", c.Request.Method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("upstream_proxy")
	observability.RecordUpstreamProxy(s.cfg.Name, c.Request.Method, resp.StatusCode, time.Since(start), resp.StatusCode < 400)
}
