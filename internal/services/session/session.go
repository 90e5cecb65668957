// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package session maps principals to and from signed session cookies. It
// does pure data-shape translation; cookie storage belongs to the browser
// and the HTTP layer.
package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/sesamelabs/sesame/internal/config"
	"github.com/sesamelabs/sesame/internal/identity"
	"golang.org/x/crypto/hkdf"
)

// ErrInvalidPrincipal is returned when a principal cannot be serialized.
var ErrInvalidPrincipal = errors.New("invalid principal")

// Record is the session payload stored inside the cookie.
type Record struct {
	SID    string          `json:"sid"`
	Email  string          `json:"email"`
	Source identity.Source `json:"source"`
}

// Manager encodes and decodes session cookies.
type Manager struct {
	codec      *securecookie.SecureCookie
	cookieName string
	maxAge     int
	secure     bool
}

// NewManager creates a session manager. The HMAC and AES keys are derived
// from the single configured secret via HKDF, so operators only manage one
// value.
func NewManager(cfg *config.SessionConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}

	hashKey, blockKey, err := deriveKeys(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("deriving session keys: %w", err)
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)

	return &Manager{
		codec:      codec,
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     cfg.Secure,
	}, nil
}

// deriveKeys expands the configured secret into a 32-byte HMAC key and a
// 32-byte AES key.
func deriveKeys(secret string) (hashKey, blockKey []byte, err error) {
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("sesame/session/v1"))
	hashKey = make([]byte, 32)
	if _, err := io.ReadFull(kdf, hashKey); err != nil {
		return nil, nil, err
	}
	blockKey = make([]byte, 32)
	if _, err := io.ReadFull(kdf, blockKey); err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}

// Encode serializes a principal into a signed, encrypted cookie value.
func (m *Manager) Encode(p identity.Principal) (string, error) {
	if p.Email == "" || !p.Source.Valid() {
		return "", ErrInvalidPrincipal
	}

	record := Record{
		SID:    uuid.NewString(),
		Email:  p.Email,
		Source: p.Source,
	}
	value, err := m.codec.Encode(m.cookieName, record)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	return value, nil
}

// Decode turns a cookie value back into a principal. It returns nil for
// malformed, tampered or outdated values: an absent session is the normal
// "not logged in" state, not an error.
func (m *Manager) Decode(value string) *identity.Principal {
	var record Record
	if err := m.codec.Decode(m.cookieName, value, &record); err != nil {
		return nil
	}
	if record.Email == "" || !record.Source.Valid() {
		return nil
	}
	return &identity.Principal{
		Email:  record.Email,
		Source: record.Source,
	}
}

// Create builds the session cookie for a principal.
func (m *Manager) Create(p identity.Principal) (*http.Cookie, error) {
	value, err := m.Encode(p)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear builds an expired cookie that removes the session.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromRequest extracts the principal from the request's session cookie, or
// nil when there is none.
func (m *Manager) FromRequest(r *http.Request) *identity.Principal {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil
	}
	return m.Decode(cookie.Value)
}
