// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package repository provides database access for login tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// ErrStoreUnavailable is returned when the store cannot answer within the
// operation timeout. Callers must treat it as "unknown outcome", never as a
// successful verification.
var ErrStoreUnavailable = errors.New("store unavailable")

// opTimeout bounds every store operation so a wedged database surfaces as
// ErrStoreUnavailable instead of hanging the request.
const opTimeout = 5 * time.Second

// Repository wraps sqlx for database operations.
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// withTimeout derives a bounded context for a single store operation.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// wrapError converts driver errors to repository errors.
func wrapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrStoreUnavailable
	default:
		return err
	}
}
