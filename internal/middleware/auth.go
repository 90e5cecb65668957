// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package middleware provides the HTTP middlewares.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sesamelabs/sesame/internal/auth"
	"github.com/sesamelabs/sesame/internal/services/session"
)

// LoadPrincipal creates middleware that loads the session principal into the
// request context. Requests without a valid session pass through untouched.
func LoadPrincipal(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if principal := sessions.FromRequest(c.Request()); principal != nil {
				ctx := auth.SetPrincipal(c.Request().Context(), principal)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests without an authenticated principal.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAuthenticated(c.Request().Context()) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		}
		return next(c)
	}
}
