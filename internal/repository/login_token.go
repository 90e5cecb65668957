// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/sesamelabs/sesame/internal/models"
)

// CreateLoginToken persists a new login token and returns it.
func (r *Repository) CreateLoginToken(ctx context.Context, email, secretHash string, expiresAt time.Time) (*models.LoginToken, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var token models.LoginToken
	err := r.db.GetContext(ctx, &token,
		`INSERT INTO login_tokens (email, secret_hash, expires_at) VALUES (?, ?, ?) RETURNING *`,
		email, secretHash, expiresAt)
	if err != nil {
		return nil, wrapError(err)
	}
	return &token, nil
}

// GetLoginTokenBySecret retrieves a login token by its secret hash.
func (r *Repository) GetLoginTokenBySecret(ctx context.Context, secretHash string) (*models.LoginToken, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var token models.LoginToken
	err := r.db.GetContext(ctx, &token,
		`SELECT * FROM login_tokens WHERE secret_hash = ?`, secretHash)
	if err != nil {
		return nil, wrapError(err)
	}
	return &token, nil
}

// ConsumeLoginToken marks the token consumed and returns it, in a single
// conditional update. The consumed_at IS NULL guard makes redemption a
// compare-and-set: of N concurrent calls for the same secret exactly one
// gets the row back, the rest get ErrNotFound.
func (r *Repository) ConsumeLoginToken(ctx context.Context, secretHash string, now time.Time) (*models.LoginToken, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var token models.LoginToken
	err := r.db.GetContext(ctx, &token,
		`UPDATE login_tokens SET consumed_at = ? WHERE secret_hash = ? AND consumed_at IS NULL RETURNING *`,
		now, secretHash)
	if err != nil {
		return nil, wrapError(err)
	}
	return &token, nil
}

// DeleteExpiredLoginTokens removes tokens that expired before the cutoff or
// have already been consumed. Returns the number of rows deleted. Safe to
// call at any time, any frequency, concurrently with issuance/verification.
func (r *Repository) DeleteExpiredLoginTokens(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM login_tokens WHERE expires_at < ? OR consumed_at IS NOT NULL`, before)
	if err != nil {
		return 0, wrapError(err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, wrapError(err)
	}
	return count, nil
}
