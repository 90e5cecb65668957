// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package models

import "time"

// LoginToken is the persisted record behind a magic link. Only the SHA256
// hash of the secret is stored; the plaintext secret leaves the system once,
// inside the emailed link.
type LoginToken struct { //nolint:govet // fieldalignment: readability over optimization
	ID         int64      `db:"id" json:"id"`
	Email      string     `db:"email" json:"email"`
	SecretHash string     `db:"secret_hash" json:"-"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at" json:"consumed_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// IsExpired reports whether the token is past its expiry at the given time.
func (t *LoginToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsConsumed reports whether the token has already been redeemed.
func (t *LoginToken) IsConsumed() bool {
	return t.ConsumedAt != nil
}
