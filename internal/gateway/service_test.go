package gateway

import (
	"errors"
	"testing"

	"github.com/danmuck/edgegate/internal/pathauth"
	"github.com/danmuck/edgegate/internal/testutil/testlog"
)

func TestNewServiceWithConfigNormalizesDefaults(t *testing.T) {
	testlog.Start(t)

	cfg := ServiceConfig{UpstreamURL: "http://127.0.0.1:9999"}
	svc, err := NewServiceWithConfig(cfg)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if svc.cfg.Name != DefaultServiceConfig().Name {
		t.Fatalf("expected default name, got %q", svc.cfg.Name)
	}
	if svc.cfg.ListenAddr != DefaultServiceConfig().ListenAddr {
		t.Fatalf("expected default listen addr, got %q", svc.cfg.ListenAddr)
	}
	if svc.cfg.UpstreamTimeout != DefaultServiceConfig().UpstreamTimeout {
		t.Fatalf("expected default upstream timeout, got %v", svc.cfg.UpstreamTimeout)
	}
	if svc.Matcher().Enabled() {
		t.Fatalf("empty path-auth config must yield a disabled filter")
	}
}

func TestNewServiceWithConfigRejectsBadUpstream(t *testing.T) {
	testlog.Start(t)

	tests := []struct {
		name     string
		upstream string
		wantErr  error
	}{
		{name: "missing", upstream: "", wantErr: ErrMissingUpstream},
		{name: "whitespace", upstream: "   ", wantErr: ErrMissingUpstream},
		{name: "bad scheme", upstream: "ftp://example.com", wantErr: ErrInvalidUpstream},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewServiceWithConfig(ServiceConfig{UpstreamURL: tc.upstream})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewServiceWithConfigRejectsNonUTF8PathAuth(t *testing.T) {
	testlog.Start(t)

	cfg := ServiceConfig{
		UpstreamURL: "http://127.0.0.1:9999",
		PathAuth:    string([]byte{0xff, 0xfe, '|', '/'}),
	}
	if _, err := NewServiceWithConfig(cfg); !errors.Is(err, pathauth.ErrConfigNotUTF8) {
		t.Fatalf("expected ErrConfigNotUTF8, got %v", err)
	}
}

func TestReloadSwapsMatcherWhole(t *testing.T) {
	testlog.Start(t)

	cfg := ServiceConfig{
		UpstreamURL: "http://127.0.0.1:9999",
		PathAuth:    "hunter2|/downloads/",
	}
	svc, err := NewServiceWithConfig(cfg)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if got := svc.Matcher(); !got.Enabled() || got.Prefixes[0] != "/downloads/" {
		t.Fatalf("unexpected initial matcher: %#v", got)
	}

	if err := svc.Reload("next-secret|/private/,/archive/"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := svc.Matcher()
	if got.Secret != "next-secret" || len(got.Prefixes) != 2 {
		t.Fatalf("unexpected matcher after reload: %#v", got)
	}

	// A failed reload keeps the previous matcher in effect.
	if err := svc.Reload(string([]byte{0xff, 0xfe})); !errors.Is(err, pathauth.ErrConfigNotUTF8) {
		t.Fatalf("expected ErrConfigNotUTF8, got %v", err)
	}
	if after := svc.Matcher(); after.Secret != "next-secret" {
		t.Fatalf("failed reload must not touch matcher, got %#v", after)
	}

	// A degenerate-but-decodable reload disables the filter silently.
	if err := svc.Reload("typo-config-without-delimiter"); err != nil {
		t.Fatalf("degenerate reload must not error, got %v", err)
	}
	if after := svc.Matcher(); after.Enabled() {
		t.Fatalf("expected disabled filter after degenerate reload, got %#v", after)
	}
}
