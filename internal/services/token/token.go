// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package token implements the magic-link token lifecycle: issuance,
// verification with single-use consumption, and purging.
package token

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sesamelabs/sesame/internal/config"
	"github.com/sesamelabs/sesame/internal/identity"
	"github.com/sesamelabs/sesame/internal/models"
	"github.com/sesamelabs/sesame/internal/repository"
)

// SecretLength is the number of random bytes in a login secret. The secret
// travels as hex, so a link carries 160 bits of entropy.
const SecretLength = 20

// DefaultTTL is how long a login link stays valid unless configured otherwise.
const DefaultTTL = time.Hour

var (
	// ErrEmptyEmail is returned for empty or whitespace-only addresses.
	// Nothing is persisted in that case.
	ErrEmptyEmail = errors.New("email must not be empty")

	// ErrDeliveryFailed is returned when the login link email could not be
	// sent. The token is already persisted and stays redeemable.
	ErrDeliveryFailed = errors.New("login link delivery failed")

	// ErrTokenNotFound is returned when no token matches the secret.
	ErrTokenNotFound = errors.New("login token not found")

	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("login token expired")

	// ErrTokenConsumed is returned for tokens that were already redeemed.
	ErrTokenConsumed = errors.New("login token already used")
)

// Mailer delivers login links. Implemented by the email service.
type Mailer interface {
	SendLoginLink(to, secret string) error
}

// Service issues and verifies login tokens.
type Service struct {
	repo   *repository.Repository
	mailer Mailer
	ttl    time.Duration
}

// NewService creates a new token service.
func NewService(repo *repository.Repository, mailer Mailer, cfg *config.TokenConfig) *Service {
	ttl := DefaultTTL
	if cfg != nil && cfg.TTL > 0 {
		ttl = cfg.TTL
	}
	return &Service{
		repo:   repo,
		mailer: mailer,
		ttl:    ttl,
	}
}

// GenerateSecret returns a new hex-encoded login secret from crypto/rand.
func GenerateSecret() (string, error) {
	bytes := make([]byte, SecretLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashSecret computes the SHA256 hash of a secret for storage and lookup.
func HashSecret(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}

// Issue creates a login token for the given email, persists it and sends the
// magic link. When delivery fails the token is returned together with an
// error wrapping ErrDeliveryFailed: the record is not rolled back and stays
// redeemable, e.g. for a manual resend.
func (s *Service) Issue(ctx context.Context, email string) (*models.LoginToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmptyEmail
	}

	secret, err := GenerateSecret()
	if err != nil {
		return nil, err
	}

	tok, err := s.repo.CreateLoginToken(ctx, email, HashSecret(secret), time.Now().Add(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to persist login token: %w", err)
	}

	slog.Info("token_issued", "email", email, "expires_at", tok.ExpiresAt)

	if err := s.mailer.SendLoginLink(email, secret); err != nil {
		slog.Warn("login_link_delivery_failed", "email", email, "error", err)
		return tok, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return tok, nil
}

// Verify redeems a login secret. On success the token is consumed atomically
// and the verified principal is returned; a token verifies successfully at
// most once. All failure modes are enforced server-side:
//
//   - ErrTokenNotFound: no record matches the secret.
//   - ErrTokenExpired: past expiry, regardless of consumed state.
//   - ErrTokenConsumed: already redeemed, or lost a concurrent redemption.
//   - repository.ErrStoreUnavailable: the consume outcome is unknown; the
//     caller must not establish a session.
func (s *Service) Verify(ctx context.Context, secret string) (identity.Principal, error) {
	hash := HashSecret(strings.TrimSpace(secret))

	tok, err := s.repo.GetLoginTokenBySecret(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return identity.Principal{}, ErrTokenNotFound
		}
		return identity.Principal{}, err
	}

	now := time.Now()
	if tok.IsExpired(now) {
		return identity.Principal{}, ErrTokenExpired
	}
	if tok.IsConsumed() {
		return identity.Principal{}, ErrTokenConsumed
	}

	// The conditional update is the only consume path. If another request
	// redeemed the token between the read above and this write, zero rows
	// match and the attempt fails.
	if _, err := s.repo.ConsumeLoginToken(ctx, hash, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return identity.Principal{}, ErrTokenConsumed
		}
		return identity.Principal{}, err
	}

	slog.Info("login_success", "email", tok.Email, "source", identity.SourceEmailToken)

	return identity.FromToken(tok.Email), nil
}

// PurgeExpired deletes expired and consumed tokens. Expiry is passive, so
// this is storage hygiene only: it is idempotent and safe to run at any
// frequency, concurrently with issuance and verification.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteExpiredLoginTokens(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge login tokens: %w", err)
	}
	if count > 0 {
		slog.Debug("tokens_purged", "count", count)
	}
	return count, nil
}
