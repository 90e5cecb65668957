// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package session_test

import (
	"net/http/httptest"
	"testing"

	"github.com/sesamelabs/sesame/internal/config"
	"github.com/sesamelabs/sesame/internal/identity"
	"github.com/sesamelabs/sesame/internal/services/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(&config.SessionConfig{
		CookieName: "_sesame",
		MaxAge:     3600,
		Secret:     "test-session-secret",
	})
	require.NoError(t, err)
	return m
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := session.NewManager(&config.SessionConfig{CookieName: "_sesame"})
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := newTestManager(t)

	principals := []identity.Principal{
		{Email: "a@x.com", Source: identity.SourceEmailToken},
		{Email: "b@y.com", Source: identity.SourceOAuth},
	}
	for _, p := range principals {
		value, err := m.Encode(p)
		require.NoError(t, err)

		got := m.Decode(value)
		require.NotNil(t, got)
		assert.Equal(t, p, *got)
	}
}

func TestEncodeRejectsInvalidPrincipal(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Encode(identity.Principal{Source: identity.SourceOAuth})
	assert.ErrorIs(t, err, session.ErrInvalidPrincipal)

	_, err = m.Encode(identity.Principal{Email: "a@x.com", Source: "password"})
	assert.ErrorIs(t, err, session.ErrInvalidPrincipal)
}

func TestDecodeMalformed(t *testing.T) {
	m := newTestManager(t)

	assert.Nil(t, m.Decode(""))
	assert.Nil(t, m.Decode("not-a-session"))

	// A value signed with a different secret must not decode.
	other, err := session.NewManager(&config.SessionConfig{
		CookieName: "_sesame",
		MaxAge:     3600,
		Secret:     "another-secret",
	})
	require.NoError(t, err)
	value, err := other.Encode(identity.Principal{Email: "a@x.com", Source: identity.SourceOAuth})
	require.NoError(t, err)
	assert.Nil(t, m.Decode(value))
}

func TestCreateAndFromRequest(t *testing.T) {
	m := newTestManager(t)
	p := identity.Principal{Email: "a@x.com", Source: identity.SourceEmailToken}

	cookie, err := m.Create(p)
	require.NoError(t, err)
	assert.Equal(t, "_sesame", cookie.Name)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	got := m.FromRequest(req)
	require.NotNil(t, got)
	assert.Equal(t, p, *got)
}

func TestFromRequestWithoutCookie(t *testing.T) {
	m := newTestManager(t)

	req := httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, m.FromRequest(req))
}

func TestClear(t *testing.T) {
	m := newTestManager(t)

	cookie := m.Clear()
	assert.Equal(t, "_sesame", cookie.Name)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.Empty(t, cookie.Value)
}
