// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sesamelabs/sesame/internal/identity"
	"github.com/sesamelabs/sesame/internal/repository"
	"github.com/sesamelabs/sesame/internal/services/oauth"
	"github.com/sesamelabs/sesame/internal/services/session"
	"github.com/sesamelabs/sesame/internal/services/token"
)

const (
	stateCookieName = "_sesame_oauth_state"
	stateCookieAge  = 5 * time.Minute
)

// linkInvalidBody is the one response for every failed redemption. NotFound,
// Expired and AlreadyConsumed must stay indistinguishable to the client, so
// a failed redemption cannot be used as a token enumeration oracle.
var linkInvalidBody = map[string]string{"error": "this link no longer works"}

// AuthHandlers contains handlers for both login paths.
type AuthHandlers struct {
	tokens     *token.Service
	google     *oauth.GoogleService
	sessions   *session.Manager
	successURL string
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(tokens *token.Service, google *oauth.GoogleService, sessions *session.Manager, successURL string) *AuthHandlers {
	if successURL == "" {
		successURL = "/"
	}
	return &AuthHandlers{
		tokens:     tokens,
		google:     google,
		sessions:   sessions,
		successURL: successURL,
	}
}

// EmailLoginRequest is the request body for requesting a login link.
type EmailLoginRequest struct {
	Email string `json:"email"`
}

// EmailLogin issues a login token and emails the magic link.
func (h *AuthHandlers) EmailLogin(c echo.Context) error {
	var req EmailLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid email address"})
	}

	_, err := h.tokens.Issue(c.Request().Context(), req.Email)
	switch {
	case errors.Is(err, token.ErrEmptyEmail):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid email address"})
	case errors.Is(err, token.ErrDeliveryFailed):
		// The token is persisted and redeemable; a bounced email is not
		// the client's problem to retry.
		slog.Warn("email_login_delivery_failed", "error", err)
	case errors.Is(err, repository.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	case err != nil:
		slog.Error("email_login_failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

// EmailCallback redeems a magic link and establishes a session.
func (h *AuthHandlers) EmailCallback(c echo.Context) error {
	principal, err := h.tokens.Verify(c.Request().Context(), c.Param("token"))
	switch {
	case errors.Is(err, token.ErrTokenNotFound),
		errors.Is(err, token.ErrTokenExpired),
		errors.Is(err, token.ErrTokenConsumed):
		return c.JSON(http.StatusBadRequest, linkInvalidBody)
	case errors.Is(err, repository.ErrStoreUnavailable):
		// Unknown consume outcome: no session, the whole request is safe
		// to retry.
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	case err != nil:
		slog.Error("email_callback_failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return h.establishSession(c, principal)
}

// GoogleLogin redirects to the provider's consent screen.
func (h *AuthHandlers) GoogleLogin(c echo.Context) error {
	if !h.google.Enabled() {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "google login is not available"})
	}

	state, err := oauth.GenerateState()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(stateCookieAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// GoogleCallback finishes the provider handshake and establishes a session.
func (h *AuthHandlers) GoogleCallback(c echo.Context) error {
	stateCookie, err := c.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || c.QueryParam("state") != stateCookie.Value {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid oauth state"})
	}
	// One-shot: the state cookie is cleared whatever happens next, with the
	// same attributes it was set with.
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Path:     "/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	ext, err := h.google.Exchange(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		slog.Warn("google_login_failed", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "login failed"})
	}

	principal := identity.FromExternal(ext)
	slog.Info("login_success", "email", principal.Email, "source", principal.Source)

	return h.establishSession(c, principal)
}

// establishSession sets the session cookie and redirects into the app.
func (h *AuthHandlers) establishSession(c echo.Context, principal identity.Principal) error {
	cookie, err := h.sessions.Create(principal)
	if err != nil {
		slog.Error("session_create_failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	c.SetCookie(cookie)
	return c.Redirect(http.StatusSeeOther, h.successURL)
}

// Session returns the current principal, or 401 when not logged in.
func (h *AuthHandlers) Session(c echo.Context) error {
	principal := h.sessions.FromRequest(c.Request())
	if principal == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, principal)
}

// Logout clears the session cookie.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return c.NoContent(http.StatusNoContent)
}
