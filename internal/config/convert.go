package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/edgegate/internal/gateway"
)

// GatewayService maps the on-disk schema onto the runtime service
// configuration, filling unset fields from service defaults.
func GatewayService(cfg GatewayConfig) (gateway.ServiceConfig, error) {
	out := gateway.DefaultServiceConfig()
	out.Name = cfg.Name
	out.ListenAddr = cfg.Addr
	out.UpstreamURL = cfg.Upstream
	out.CORSOrigins = cfg.CorsOrigins
	out.AdminListenAddr = cfg.AdminAddr
	out.AdminToken = cfg.AdminToken
	out.PathAuth = cfg.PathAuth

	if v := strings.TrimSpace(cfg.UpstreamTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return gateway.ServiceConfig{}, fmt.Errorf("parse upstream_timeout: %w", err)
		}
		out.UpstreamTimeout = d
	}
	return out, nil
}
