package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanqian/run-reporter/internal/infra/config"
	"github.com/yanqian/run-reporter/internal/interface/cli"
	"github.com/yanqian/run-reporter/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log := logger.NewWithWriter(os.Stderr, level, false)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app, err := cli.NewApp(cfg.Upstream, os.Stdout, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", cli.ErrorMessage(err))
		os.Exit(1)
	}
}
