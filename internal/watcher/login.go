// File: internal/watcher/login.go
package watcher

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/avolkov-io/webclicker-cli/internal/browser"
)

// loginResult describes the outcome of the best-effort login attempt.
type loginResult int

const (
	// loginSkipped: credentials were not supplied; no DOM queries ran.
	loginSkipped loginResult = iota
	// loginNotAttempted: the form could not be identified unambiguously.
	loginNotAttempted
	// loginSubmitted: fields were filled and the submit button clicked.
	loginSubmitted
)

// login fills and submits a login form when both credentials are
// configured. The form is identified heuristically: input fields by type
// or placeholder, the submit button by its caption. Failure is never
// fatal since pre-authenticated sessions need no login at all.
func (w *Watcher) login(ctx context.Context) loginResult {
	if w.cfg.Username == "" || w.cfg.Password == "" {
		w.logger.Info("No login credentials provided, skipping login")
		return loginSkipped
	}

	w.logger.Info("Attempting to log in", zap.String("username", w.cfg.Username))

	usernameField, passwordField, err := w.findCredentialFields(ctx)
	if err != nil {
		w.logger.Warn("Login form scan failed", zap.Error(err))
		return loginNotAttempted
	}

	submit, err := w.findSubmitButton(ctx)
	if err != nil {
		w.logger.Warn("Login button scan failed", zap.Error(err))
		return loginNotAttempted
	}

	if usernameField == nil || passwordField == nil || submit == nil {
		w.logger.Warn("Could not identify login form elements, proceeding without login")
		return loginNotAttempted
	}

	if err := usernameField.Fill(ctx, w.cfg.Username); err != nil {
		w.logger.Warn("Failed to fill username field", zap.Error(err))
		return loginNotAttempted
	}
	if err := passwordField.Fill(ctx, w.cfg.Password); err != nil {
		w.logger.Warn("Failed to fill password field", zap.Error(err))
		return loginNotAttempted
	}
	if err := submit.Click(ctx); err != nil {
		w.logger.Warn("Failed to click login button", zap.Error(err))
		return loginNotAttempted
	}

	w.logger.Info("Login form submitted")
	return loginSubmitted
}

// findCredentialFields scans all inputs for a username-like and a
// password-like field. The last match of each kind wins, mirroring how
// login pages usually order their fields.
func (w *Watcher) findCredentialFields(ctx context.Context) (username, password browser.Element, err error) {
	inputs, err := w.session.FindByTag(ctx, "input")
	if err != nil {
		return nil, nil, err
	}

	for _, input := range inputs {
		inputType, _, err := input.Attribute(ctx, "type")
		if err != nil {
			continue
		}
		placeholder, _, err := input.Attribute(ctx, "placeholder")
		if err != nil {
			placeholder = ""
		}
		placeholder = strings.ToLower(placeholder)

		switch {
		case inputType == "password" || strings.Contains(placeholder, "password"):
			password = input
		case inputType == "text" || inputType == "email" ||
			strings.Contains(placeholder, "user") || strings.Contains(placeholder, "email"):
			username = input
		}
	}
	return username, password, nil
}

// findSubmitButton scans all buttons for a caption matching the usual
// login verbs.
func (w *Watcher) findSubmitButton(ctx context.Context) (browser.Element, error) {
	buttons, err := w.session.FindByTag(ctx, "button")
	if err != nil {
		return nil, err
	}

	var submit browser.Element
	for _, b := range buttons {
		text, err := b.Text(ctx)
		if err != nil {
			continue
		}
		caption := strings.ToLower(text)
		if strings.Contains(caption, "login") ||
			strings.Contains(caption, "sign in") ||
			strings.Contains(caption, "submit") {
			submit = b
		}
	}
	return submit, nil
}
