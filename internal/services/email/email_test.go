// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package email_test

import (
	"testing"

	"github.com/sesamelabs/sesame/internal/config"
	"github.com/sesamelabs/sesame/internal/services/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRequiresHost(t *testing.T) {
	_, err := email.NewService(&config.SMTPConfig{From: "noreply@example.com"}, "http://localhost:8080")
	assert.Error(t, err)
}

func TestNewServiceRequiresFrom(t *testing.T) {
	_, err := email.NewService(&config.SMTPConfig{Host: "smtp.example.com"}, "http://localhost:8080")
	assert.Error(t, err)
}

func TestLoginLinkURL(t *testing.T) {
	svc, err := email.NewService(&config.SMTPConfig{
		Host: "smtp.example.com",
		From: "noreply@example.com",
	}, "http://localhost:8080/")
	require.NoError(t, err)

	url := svc.LoginLinkURL("deadbeef")

	// Trailing slash on the base URL must not produce a double slash.
	assert.Equal(t, "http://localhost:8080/auth/email/deadbeef", url)
}
