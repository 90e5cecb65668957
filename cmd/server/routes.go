// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sesamelabs/sesame/internal/auth"
	"github.com/sesamelabs/sesame/internal/handlers"
	"github.com/sesamelabs/sesame/internal/middleware"
	"github.com/sesamelabs/sesame/internal/services/oauth"
	"github.com/sesamelabs/sesame/internal/services/session"
	"github.com/sesamelabs/sesame/internal/services/token"
	"github.com/vinovest/sqlx"
)

// newEcho builds the router with all middlewares and routes.
func newEcho(db *sqlx.DB, tokens *token.Service, google *oauth.GoogleService, sessions *session.Manager) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(requestLogger())
	e.Use(middleware.LoadPrincipal(sessions))

	h := handlers.New(db)
	e.GET("/health", h.Health)

	authHandler := handlers.NewAuth(tokens, google, sessions, "/")
	e.POST("/auth/email", authHandler.EmailLogin)
	e.GET("/auth/email/:token", authHandler.EmailCallback)
	e.GET("/auth/google", authHandler.GoogleLogin)
	e.GET("/auth/google/callback", authHandler.GoogleCallback)
	e.GET("/auth/session", authHandler.Session)
	e.POST("/auth/logout", authHandler.Logout)

	e.GET("/", welcome, middleware.RequireAuth)

	return e
}

// welcome is the landing page both login paths redirect into.
func welcome(c echo.Context) error {
	principal := auth.GetPrincipal(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{
		"message":   "logged in",
		"principal": principal,
	})
}
