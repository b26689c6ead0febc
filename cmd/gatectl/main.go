package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/edgegate/internal/gateway"
	"github.com/danmuck/edgegate/internal/observability"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to gateway config toml")
	flag.Parse()

	observability.InitLogger("edgegate")

	cfg := gateway.DefaultServiceConfig()
	if *configPath != "" {
		loaded, err := loadServiceConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load gateway config")
		}
		cfg = loaded
		log.Info().Str("path", *configPath).Msg("loaded gateway config")
	}

	svc, err := gateway.NewServiceWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gatectl: %v\n", err)
		os.Exit(1)
	}
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "gatectl: %v\n", err)
		os.Exit(1)
	}
}
