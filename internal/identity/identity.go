// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package identity normalizes the two credential sources into one principal
// shape. A principal is ephemeral: it lives for the request/session only and
// is never persisted by this package.
package identity

import "strings"

// Source identifies which login path established a principal.
type Source string

const (
	// SourceEmailToken marks principals established via a magic link.
	SourceEmailToken Source = "email_token"
	// SourceOAuth marks principals established via the OAuth provider.
	SourceOAuth Source = "oauth"
)

// Valid reports whether the source is one of the known login paths.
func (s Source) Valid() bool {
	return s == SourceEmailToken || s == SourceOAuth
}

// Principal is the internal, source-agnostic representation of an
// authenticated identity. Either source, once validated by its own
// component, is equally authoritative.
type Principal struct {
	Email  string `json:"email"`
	Source Source `json:"source"`
}

// ExternalIdentity is the verified output of the OAuth provider handshake.
// The handshake itself is a collaborator; this package only consumes its
// result.
type ExternalIdentity struct {
	Email      string
	ProviderID string
}

// FromToken builds a principal for an email verified via a login token.
func FromToken(email string) Principal {
	return Principal{
		Email:  strings.ToLower(strings.TrimSpace(email)),
		Source: SourceEmailToken,
	}
}

// FromExternal normalizes a provider identity into a principal.
func FromExternal(ext ExternalIdentity) Principal {
	return Principal{
		Email:  strings.ToLower(strings.TrimSpace(ext.Email)),
		Source: SourceOAuth,
	}
}
