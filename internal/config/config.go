package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// GatewayConfig is the on-disk TOML schema for one gateway node.
type GatewayConfig struct {
	Name            string   `toml:"name"`
	Addr            string   `toml:"addr"`
	Upstream        string   `toml:"upstream"`
	UpstreamTimeout string   `toml:"upstream_timeout"`
	CorsOrigins     []string `toml:"cors_origins"`
	AdminAddr       string   `toml:"admin_addr"`
	AdminToken      string   `toml:"admin_token"`
	PathAuth        string   `toml:"path_auth"`
}

func LoadGatewayConfig(path string) (GatewayConfig, error) {
	var cfg GatewayConfig
	if err := loadToml(path, &cfg); err != nil {
		return GatewayConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "edgegate"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if err := ValidateGatewayConfig(cfg); err != nil {
		return GatewayConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateGatewayConfig(cfg GatewayConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("gateway config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("gateway config missing addr")
	}
	upstream := strings.TrimSpace(cfg.Upstream)
	if upstream == "" {
		return fmt.Errorf("gateway config missing upstream")
	}
	parsed, err := url.Parse(upstream)
	if err != nil {
		return fmt.Errorf("gateway config upstream invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("gateway config upstream must be http or https: %s", upstream)
	}
	// path_auth is deliberately not validated beyond its type: a malformed
	// string parses to a disabled filter at runtime rather than failing
	// startup.
	return nil
}
