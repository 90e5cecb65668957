// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/lmittmann/tint"
	"github.com/sesamelabs/sesame/internal/config"
	"github.com/sesamelabs/sesame/internal/database"
	"github.com/sesamelabs/sesame/internal/repository"
	"github.com/sesamelabs/sesame/internal/services/email"
	"github.com/sesamelabs/sesame/internal/services/oauth"
	"github.com/sesamelabs/sesame/internal/services/session"
	"github.com/sesamelabs/sesame/internal/services/token"
	"github.com/urfave/cli/v3"
)

// setupLogger configures the global slog logger.
func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)

	setupLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repository.New(db)

	// Without SMTP settings the links are only logged. Useful for local
	// development, useless in production.
	var mailer token.Mailer
	if cfg.SMTP.Host != "" {
		mailer, err = email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to create email service: %w", err)
		}
	} else {
		slog.Warn("smtp_not_configured", "mode", "log-only")
		mailer = email.NewLogSender(cfg.Server.BaseURL)
	}

	tokens := token.NewService(repo, mailer, &cfg.Token)
	google := oauth.NewGoogle(&cfg.OAuth)

	if cfg.Session.Secret == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		slog.Warn("session_secret_generated", "note", "sessions will not survive a restart")
		cfg.Session.Secret = secret
	}
	sessions, err := session.NewManager(&cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	e := newEcho(db, tokens, google, sessions)

	// Expiry is passive; the sweeper only keeps the table small.
	go runPurge(ctx, tokens, cfg.Token.PurgeInterval)

	slog.Info("server_config",
		"base_url", cfg.Server.BaseURL,
		"token_ttl", cfg.Token.TTL,
		"google_login", google.Enabled(),
		"database", cfg.Database.DSN,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_start", "addr", addr)
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		slog.Info("server_shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

// runPurge deletes expired and consumed tokens on a fixed interval until the
// context is cancelled.
func runPurge(ctx context.Context, tokens *token.Service, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := tokens.PurgeExpired(ctx); err != nil {
				slog.Warn("token_purge_failed", "error", err)
			}
		}
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// requestLogger logs requests through slog in the same event style as the
// rest of the service.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.URI == "/health" {
				return nil
			}
			slog.Info("request",
				"method", v.Method,
				"path", v.URI,
				"status", v.Status,
				"duration_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	})
}
