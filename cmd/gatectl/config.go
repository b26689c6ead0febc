package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/edgegate/internal/gateway"
)

type fileConfig struct {
	Name              string   `toml:"name"`
	Addr              string   `toml:"addr"`
	Upstream          string   `toml:"upstream"`
	UpstreamTimeout   string   `toml:"upstream_timeout"`
	UpstreamTimeoutMS int64    `toml:"upstream_timeout_ms"`
	CorsOrigins       []string `toml:"cors_origins"`
	AdminAddr         string   `toml:"admin_addr"`
	AdminToken        string   `toml:"admin_token"`
	PathAuth          string   `toml:"path_auth"`
}

func loadServiceConfig(path string) (gateway.ServiceConfig, error) {
	cfg := gateway.DefaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return gateway.ServiceConfig{}, fmt.Errorf("load gateway config: %w", err)
	}

	if meta.IsDefined("name") {
		name := strings.TrimSpace(raw.Name)
		if name != "" {
			cfg.Name = name
		}
	}

	if meta.IsDefined("addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.Addr)
	}

	if meta.IsDefined("upstream") {
		cfg.UpstreamURL = strings.TrimSpace(raw.Upstream)
	}

	if meta.IsDefined("upstream_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.UpstreamTimeout))
		if err != nil {
			return gateway.ServiceConfig{}, fmt.Errorf("parse upstream_timeout: %w", err)
		}
		cfg.UpstreamTimeout = d
	}

	if meta.IsDefined("upstream_timeout_ms") {
		cfg.UpstreamTimeout = time.Duration(raw.UpstreamTimeoutMS) * time.Millisecond
	}

	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = normalizeOrigins(raw.CorsOrigins)
	}

	if meta.IsDefined("admin_addr") {
		cfg.AdminListenAddr = strings.TrimSpace(raw.AdminAddr)
	}

	if meta.IsDefined("admin_token") {
		cfg.AdminToken = strings.TrimSpace(raw.AdminToken)
	}

	if meta.IsDefined("path_auth") {
		// Kept verbatim: the matcher grammar owns this string, including
		// whitespace and empty prefix elements.
		cfg.PathAuth = raw.PathAuth
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
