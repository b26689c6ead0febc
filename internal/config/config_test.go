package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/edgegate/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadGatewayConfig(t *testing.T) {
	testlog.Start(t)

	path := writeConfig(t, `name = "gate-a"
addr = ":8088"
upstream = "http://files.internal:9000"
upstream_timeout = "5s"
admin_addr = "127.0.0.1:7200"
path_auth = "hunter2|/downloads/"
`)

	cfg, err := LoadGatewayConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "gate-a" || cfg.Addr != ":8088" {
		t.Fatalf("unexpected identity fields: %+v", cfg)
	}
	if cfg.PathAuth != "hunter2|/downloads/" {
		t.Fatalf("path_auth must be kept verbatim, got %q", cfg.PathAuth)
	}
}

func TestLoadGatewayConfigDefaultsAndValidation(t *testing.T) {
	testlog.Start(t)

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "name and addr defaulted",
			body: "upstream = \"http://127.0.0.1:9000\"\n",
		},
		{
			name:    "missing upstream",
			body:    "name = \"gate-a\"\n",
			wantErr: true,
		},
		{
			name:    "non-http upstream",
			body:    "upstream = \"unix:///tmp/files.sock\"\n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadGatewayConfig(writeConfig(t, tc.body))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected validation error, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Name != "edgegate" || cfg.Addr != ":8080" {
				t.Fatalf("expected defaults applied, got %+v", cfg)
			}
		})
	}
}

func TestWriteTemplateRoundTrip(t *testing.T) {
	testlog.Start(t)

	path := filepath.Join(t.TempDir(), "gateway.toml")
	if err := WriteTemplate(path, "gateway", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, "gateway", false); err == nil {
		t.Fatalf("expected overwrite refusal for existing file")
	}
	if err := WriteTemplate(path, "gateway", true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}

	cfg, err := LoadGatewayConfig(path)
	if err != nil {
		t.Fatalf("template must load cleanly: %v", err)
	}
	if cfg.PathAuth == "" {
		t.Fatalf("template must carry a path_auth example")
	}

	if _, err := Template("bogus"); err == nil {
		t.Fatalf("expected unknown-kind error")
	}
}

func TestGatewayServiceConversion(t *testing.T) {
	testlog.Start(t)

	cfg := GatewayConfig{
		Name:            "gate-a",
		Addr:            ":8088",
		Upstream:        "http://files.internal:9000",
		UpstreamTimeout: "5s",
		AdminAddr:       "127.0.0.1:7200",
		AdminToken:      "tok",
		PathAuth:        "hunter2|/downloads/",
	}

	svcCfg, err := GatewayService(cfg)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if svcCfg.UpstreamTimeout != 5*time.Second {
		t.Fatalf("expected parsed timeout, got %v", svcCfg.UpstreamTimeout)
	}
	if svcCfg.PathAuth != cfg.PathAuth || svcCfg.AdminToken != "tok" {
		t.Fatalf("unexpected conversion: %+v", svcCfg)
	}

	cfg.UpstreamTimeout = "not-a-duration"
	if _, err := GatewayService(cfg); err == nil {
		t.Fatalf("expected duration parse error")
	}
}
