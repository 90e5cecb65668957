// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package identity_test

import (
	"testing"

	"github.com/sesamelabs/sesame/internal/identity"
	"github.com/stretchr/testify/assert"
)

func TestFromToken(t *testing.T) {
	p := identity.FromToken("a@x.com")

	assert.Equal(t, "a@x.com", p.Email)
	assert.Equal(t, identity.SourceEmailToken, p.Source)
}

func TestFromTokenNormalizesEmail(t *testing.T) {
	p := identity.FromToken("  User@Example.COM ")

	assert.Equal(t, "user@example.com", p.Email)
}

func TestFromExternal(t *testing.T) {
	p := identity.FromExternal(identity.ExternalIdentity{
		Email:      "b@y.com",
		ProviderID: "108537492834",
	})

	assert.Equal(t, "b@y.com", p.Email)
	assert.Equal(t, identity.SourceOAuth, p.Source)
}

func TestSourceValid(t *testing.T) {
	assert.True(t, identity.SourceEmailToken.Valid())
	assert.True(t, identity.SourceOAuth.Valid())
	assert.False(t, identity.Source("password").Valid())
	assert.False(t, identity.Source("").Valid())
}
