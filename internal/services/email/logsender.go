// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

package email

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogSender writes login links to the log instead of sending mail. It is the
// fallback when no SMTP server is configured, for local development only.
type LogSender struct {
	baseURL string
}

// NewLogSender creates a log-only sender.
func NewLogSender(baseURL string) *LogSender {
	return &LogSender{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SendLoginLink logs the magic link that would have been emailed.
func (s *LogSender) SendLoginLink(to, secret string) error {
	slog.Info("login_link",
		"to", to,
		"url", fmt.Sprintf("%s/auth/email/%s", s.baseURL, secret),
	)
	return nil
}
