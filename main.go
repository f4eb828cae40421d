package main

import (
	"flag"
	"fmt"
	"os"

	"ordersvc/cmd"
	"ordersvc/config"
	"ordersvc/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Application failed: %v\n", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	cmd.InitPropagation()

	app, err := cmd.NewBuilder(cfg).Build()
	if err != nil {
		return err
	}
	return app.Run()
}
