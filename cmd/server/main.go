// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sesamelabs/sesame/internal/config"
	"github.com/urfave/cli/v3"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:     "sesame",
		Usage:    "Authentication gateway with magic-link and Google login",
		Version:  fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:    config.Flags(),
		Action:   runServer,
		Commands: []*cli.Command{migrateCommand()},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
