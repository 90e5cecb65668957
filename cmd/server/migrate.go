// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sesamelabs/sesame/internal/config"
	"github.com/sesamelabs/sesame/internal/database"
	"github.com/urfave/cli/v3"
)

// migrateCommand steps the database schema without starting the server.
// The server applies pending migrations on startup anyway; these commands
// exist for rollbacks and for migrating ahead of a deploy.
func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Flags:  config.Flags(),
				Action: runMigration(database.RunMigrations),
			},
			{
				Name:   "down",
				Usage:  "Roll back the most recent migration",
				Flags:  config.Flags(),
				Action: runMigration(database.MigrateDown),
			},
		},
	}
}

func runMigration(step func(*sql.DB) error) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		cfg := config.NewFromCLI(cmd)

		conn, err := database.Connect(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer conn.Close()

		return step(conn.DB)
	}
}
