// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package models_test

import (
	"testing"
	"time"

	"github.com/sesamelabs/sesame/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLoginTokenIsExpired(t *testing.T) {
	now := time.Now()
	token := &models.LoginToken{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, token.IsExpired(now))
	assert.False(t, token.IsExpired(now.Add(time.Hour)))
	assert.True(t, token.IsExpired(now.Add(61*time.Minute)))
}

func TestLoginTokenIsConsumed(t *testing.T) {
	token := &models.LoginToken{}
	assert.False(t, token.IsConsumed())

	consumedAt := time.Now()
	token.ConsumedAt = &consumedAt
	assert.True(t, token.IsConsumed())
}
