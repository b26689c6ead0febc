package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "gateway":
		return gatewayTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const gatewayTemplate = `name = "edgegate"
addr = ":8080"
upstream = "http://127.0.0.1:8081"
upstream_timeout = "10s"
cors_origins = ["http://localhost:3000"]
admin_addr = "127.0.0.1:7200"
admin_token = "temp-admin-token"

# Signed-path filter configuration: "<secret>|<prefix>,<prefix>,..."
# Leave empty to run the gateway with the filter disabled.
path_auth = "WASM_rocks!|/downloads/,/private/"
`
