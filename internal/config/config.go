// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package config builds the startup configuration from CLI flags, environment
// variables and an optional TOML file. Components receive the resolved struct
// by reference; there are no ambient globals.
package config

import (
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Token    TokenConfig
	SMTP     SMTPConfig
	OAuth    OAuthConfig
	Session  SessionConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host    string
	Port    int
	BaseURL string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

// TokenConfig controls the magic-link token lifecycle.
type TokenConfig struct { //nolint:govet // fieldalignment not critical
	TTL           time.Duration // how long an unredeemed link stays valid
	PurgeInterval time.Duration // how often expired/consumed rows are swept
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	From     string
	FromName string
	Username string
	Password string
	TLS      bool
}

// OAuthConfig holds the Google OAuth client credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	Secret     string // Secret the cookie keys are derived from
	Secure     bool   // HTTPS-only cookie
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:    cmd.String("host"),
			Port:    int(cmd.Int("port")),
			BaseURL: cmd.String("base-url"),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Token: TokenConfig{
			TTL:           cmd.Duration("token-ttl"),
			PurgeInterval: cmd.Duration("token-purge-interval"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		OAuth: OAuthConfig{
			ClientID:     cmd.String("google-client-id"),
			ClientSecret: cmd.String("google-client-secret"),
			RedirectURL:  cmd.String("google-redirect-url"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			Secret:     cmd.String("session-secret"),
			Secure:     cmd.Bool("session-secure"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	cfg.Server.BaseURL = strings.TrimSuffix(cfg.Server.BaseURL, "/")

	if cfg.OAuth.RedirectURL == "" {
		cfg.OAuth.RedirectURL = cfg.Server.BaseURL + "/auth/google/callback"
	}

	return cfg
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL used in magic links and OAuth redirects",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/sesame.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.DurationFlag{
			Name:    "token-ttl",
			Value:   time.Hour,
			Usage:   "How long a login link stays valid",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_TTL"), toml.TOML("token.ttl", configFile)),
		},
		&cli.DurationFlag{
			Name:    "token-purge-interval",
			Value:   15 * time.Minute,
			Usage:   "How often expired login tokens are purged",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_PURGE_INTERVAL"), toml.TOML("token.purge_interval", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "From address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Usage:   "Display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "google-client-id",
			Usage:   "Google OAuth client ID",
			Sources: cli.NewValueSourceChain(cli.EnvVar("GOOGLE_CLIENT_ID"), toml.TOML("oauth.google_client_id", configFile)),
		},
		&cli.StringFlag{
			Name:    "google-client-secret",
			Usage:   "Google OAuth client secret",
			Sources: cli.NewValueSourceChain(cli.EnvVar("GOOGLE_CLIENT_SECRET"), toml.TOML("oauth.google_client_secret", configFile)),
		},
		&cli.StringFlag{
			Name:    "google-redirect-url",
			Usage:   "Google OAuth redirect URL (defaults to base_url + /auth/google/callback)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("GOOGLE_REDIRECT_URL"), toml.TOML("oauth.google_redirect_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_sesame",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-max-age",
			Value:   604800, // 7 days in seconds
			Usage:   "Session max age in seconds",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_MAX_AGE"), toml.TOML("session.max_age", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-secret",
			Usage:   "Secret the session cookie keys are derived from",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_SECRET"), toml.TOML("session.secret", configFile)),
		},
		&cli.BoolFlag{
			Name:    "session-secure",
			Usage:   "HTTPS-only session cookie",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_SECURE"), toml.TOML("session.secure", configFile)),
		},
	}
}
