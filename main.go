package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/config"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/scanner"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/agent"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "whale-scanner: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	ctx := context.Background()
	app, err := scanner.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	host, err := app.Host()
	if err != nil {
		_ = app.Close()
		return err
	}

	if err := agent.Run(ctx, host); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Whale scanner stopped")
	return nil
}
