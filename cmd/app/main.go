package main

import (
	"flag"
	"log"
	"os"

	"RuleForge/internal/di"
	"RuleForge/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	modelPath := flag.String("model", "", "model dump path (overrides source.path)")
	asset := flag.String("asset", "", "asset symbol attached to signals (overrides source.asset)")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *modelPath != "" {
		cfg.Source.Mode = "file"
		cfg.Source.Path = *modelPath
	}
	if *asset != "" {
		cfg.Source.Asset = *asset
	}

	log.Printf("env=%s source=%s sink=%s", cfg.Environment, cfg.Source.Mode, cfg.Sink.Type)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
