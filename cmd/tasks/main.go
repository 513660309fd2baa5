// Package main is the entry point for the tasks command-line tool.
// It loads configuration and hands the arguments to the cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkordes/viking/internal/cli"
	"github.com/pkordes/viking/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// The CLI is quiet by default; LOG_LEVEL or --log-level turn it up.
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		cfg.Log.Level = "warn"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cfg, os.Stdout, os.Stderr).Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
