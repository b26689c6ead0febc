package pathauth

import (
	"errors"
	"testing"

	"github.com/danmuck/edgegate/internal/testutil/testlog"
)

func TestLoadParsesTwoFieldConfig(t *testing.T) {
	testlog.Start(t)

	cfg, err := Load([]byte("WASM_rocks!|/downloads/,/private/"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Secret != "WASM_rocks!" {
		t.Fatalf("expected secret kept verbatim, got %q", cfg.Secret)
	}
	if len(cfg.Prefixes) != 2 || cfg.Prefixes[0] != "/downloads/" || cfg.Prefixes[1] != "/private/" {
		t.Fatalf("unexpected prefixes: %#v", cfg.Prefixes)
	}
	if !cfg.Enabled() {
		t.Fatalf("expected enabled matcher")
	}
}

func TestLoadDegenerateShapesDisableFilter(t *testing.T) {
	testlog.Start(t)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty input", raw: ""},
		{name: "one field", raw: "just-a-secret"},
		{name: "three fields", raw: "secret|/a/|/b/"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load([]byte(tc.raw))
			if err != nil {
				t.Fatalf("degenerate shape must not error, got %v", err)
			}
			if cfg.Secret != "" || len(cfg.Prefixes) != 0 {
				t.Fatalf("expected zero config, got %#v", cfg)
			}
			if cfg.Enabled() {
				t.Fatalf("degenerate config must be disabled")
			}
		})
	}
}

func TestLoadKeepsFieldsVerbatim(t *testing.T) {
	testlog.Start(t)

	// Empty secret and empty prefix elements are legal inputs; the secret
	// disables the filter, the empty prefix element matches everything.
	cfg, err := Load([]byte("| /a/ ,,/b/"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Secret != "" {
		t.Fatalf("expected empty secret, got %q", cfg.Secret)
	}
	want := []string{" /a/ ", "", "/b/"}
	if len(cfg.Prefixes) != len(want) {
		t.Fatalf("unexpected prefixes: %#v", cfg.Prefixes)
	}
	for i := range want {
		if cfg.Prefixes[i] != want[i] {
			t.Fatalf("prefix[%d]: expected %q, got %q", i, want[i], cfg.Prefixes[i])
		}
	}
	if cfg.Enabled() {
		t.Fatalf("empty secret must disable the filter")
	}
}

func TestLoadEmptyPrefixListField(t *testing.T) {
	testlog.Start(t)

	// "secret|" is a well-formed two-field config whose prefix list is one
	// empty element, so the filter is enabled and guards every path.
	cfg, err := Load([]byte("secret|"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(cfg.Prefixes) != 1 || cfg.Prefixes[0] != "" {
		t.Fatalf("expected single empty prefix, got %#v", cfg.Prefixes)
	}
	if !cfg.Enabled() {
		t.Fatalf("expected enabled matcher")
	}
}

func TestLoadRejectsNonUTF8(t *testing.T) {
	testlog.Start(t)

	if _, err := Load([]byte{0xff, 0xfe, '|', '/'}); !errors.Is(err, ErrConfigNotUTF8) {
		t.Fatalf("expected ErrConfigNotUTF8, got %v", err)
	}
}
