// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package oauth wraps the Google OAuth handshake. The provider does the
// actual identity verification; this package only drives the redirect,
// exchanges the callback code and extracts the external identity.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sesamelabs/sesame/internal/config"
	"github.com/sesamelabs/sesame/internal/identity"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNotConfigured is returned when no OAuth client credentials are set.
var ErrNotConfigured = errors.New("google oauth is not configured")

// ErrNoEmail is returned when the provider payload carries no email claim.
var ErrNoEmail = errors.New("provider identity has no email")

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleService drives the Google OAuth login path.
type GoogleService struct {
	cfg oauth2.Config

	// UserInfoURL is the endpoint user info is fetched from. Defaults to
	// Google's API; can be overridden for testing.
	UserInfoURL string

	// HTTPClient is used for the userinfo request. Defaults to
	// http.DefaultClient; can be overridden for testing.
	HTTPClient *http.Client
}

// NewGoogle creates a Google OAuth service.
func NewGoogle(cfg *config.OAuthConfig) *GoogleService {
	return &GoogleService{
		cfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		UserInfoURL: defaultUserInfoURL,
		HTTPClient:  http.DefaultClient,
	}
}

// SetEndpoint overrides the provider endpoint. For testing.
func (g *GoogleService) SetEndpoint(e oauth2.Endpoint) {
	g.cfg.Endpoint = e
}

// Enabled reports whether client credentials are configured.
func (g *GoogleService) Enabled() bool {
	return g.cfg.ClientID != "" && g.cfg.ClientSecret != ""
}

// GenerateState returns a random state value for CSRF protection of the
// handshake.
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// AuthCodeURL builds the provider redirect URL for the given state.
func (g *GoogleService) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange trades the callback code for an access token, fetches the user
// info and returns the external identity. The email claim is required.
func (g *GoogleService) Exchange(ctx context.Context, code string) (identity.ExternalIdentity, error) {
	if !g.Enabled() {
		return identity.ExternalIdentity{}, ErrNotConfigured
	}

	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return identity.ExternalIdentity{}, fmt.Errorf("code exchange failed: %w", err)
	}

	info, err := g.fetchUserInfo(ctx, token)
	if err != nil {
		return identity.ExternalIdentity{}, err
	}
	if info.Email == "" {
		return identity.ExternalIdentity{}, ErrNoEmail
	}

	return identity.ExternalIdentity{
		Email:      info.Email,
		ProviderID: info.ID,
	}, nil
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (g *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var info userInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	return &info, nil
}
