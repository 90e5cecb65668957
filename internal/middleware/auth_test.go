// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sesamelabs/sesame/internal/auth"
	"github.com/sesamelabs/sesame/internal/config"
	"github.com/sesamelabs/sesame/internal/identity"
	"github.com/sesamelabs/sesame/internal/middleware"
	"github.com/sesamelabs/sesame/internal/services/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(&config.SessionConfig{
		CookieName: "_sesame",
		MaxAge:     3600,
		Secret:     "test-session-secret",
	})
	require.NoError(t, err)
	return m
}

func TestLoadPrincipal(t *testing.T) {
	sessions := newSessions(t)
	e := echo.New()
	e.Use(middleware.LoadPrincipal(sessions))

	var got *identity.Principal
	e.GET("/", func(c echo.Context) error {
		got = auth.GetPrincipal(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	// Without a cookie no principal is loaded.
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, got)

	// With a valid session cookie the principal lands in the context.
	p := identity.Principal{Email: "a@x.com", Source: identity.SourceOAuth}
	cookie, err := sessions.Create(p)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, p, *got)
}

func TestRequireAuth(t *testing.T) {
	sessions := newSessions(t)
	e := echo.New()
	e.Use(middleware.LoadPrincipal(sessions))
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, middleware.RequireAuth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie, err := sessions.Create(identity.Principal{Email: "a@x.com", Source: identity.SourceEmailToken})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
