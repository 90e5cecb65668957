// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vinovest/sqlx"
)

// Handlers contains the non-auth handlers.
type Handlers struct {
	db *sqlx.DB
}

// New creates a new Handlers instance.
func New(db *sqlx.DB) *Handlers {
	return &Handlers{db: db}
}

// Health reports whether the service and its store are reachable.
func (h *Handlers) Health(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
