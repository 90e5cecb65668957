// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/sesamelabs/sesame/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// runWithArgs resolves the configuration the same way the server does.
func runWithArgs(t *testing.T, args ...string) *config.Config {
	t.Helper()
	var cfg *config.Config
	cmd := &cli.Command{
		Flags: config.Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg = config.NewFromCLI(cmd)
			return nil
		},
	}
	err := cmd.Run(context.Background(), append([]string{"sesame"}, args...))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := runWithArgs(t)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Hour, cfg.Token.TTL)
	assert.Equal(t, 15*time.Minute, cfg.Token.PurgeInterval)
	assert.Equal(t, "_sesame", cfg.Session.CookieName)
	assert.Equal(t, 604800, cfg.Session.MaxAge)
}

func TestBaseURLTrailingSlash(t *testing.T) {
	cfg := runWithArgs(t, "--base-url", "https://auth.example.com/")

	assert.Equal(t, "https://auth.example.com", cfg.Server.BaseURL)
}

func TestOAuthRedirectDerivedFromBaseURL(t *testing.T) {
	cfg := runWithArgs(t, "--base-url", "https://auth.example.com")

	assert.Equal(t, "https://auth.example.com/auth/google/callback", cfg.OAuth.RedirectURL)
}

func TestOAuthRedirectOverride(t *testing.T) {
	cfg := runWithArgs(t, "--google-redirect-url", "https://other.example.com/cb")

	assert.Equal(t, "https://other.example.com/cb", cfg.OAuth.RedirectURL)
}

func TestTokenTTLOverride(t *testing.T) {
	cfg := runWithArgs(t, "--token-ttl", "30m")

	assert.Equal(t, 30*time.Minute, cfg.Token.TTL)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SESSION_SECRET", "from-env")

	cfg := runWithArgs(t)

	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, "from-env", cfg.Session.Secret)
}
