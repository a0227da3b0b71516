// File: internal/watcher/login_test.go
package watcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loginSnapshot renders a typical login form.
func loginSnapshot(inputs, buttons []*fakeElement) snapshot {
	return snapshot{
		byTag: map[string][]*fakeElement{
			"input":  inputs,
			"button": buttons,
		},
	}
}

func TestLoginSkippedWithoutCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		username, password string
	}{
		{name: "no credentials"},
		{name: "username only", username: "student42"},
		{name: "password only", password: "hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sess := &fakeSession{}
			cfg := testWatcherConfig()
			cfg.Username = tt.username
			cfg.Password = tt.password
			w := newTestWatcher(t, sess, cfg)

			assert.Equal(t, loginSkipped, w.login(context.Background()))
			assert.Zero(t, sess.findCalls, "skipped login must not touch the DOM")
		})
	}
}

func TestLoginFillsAndSubmits(t *testing.T) {
	t.Parallel()
	username := &fakeElement{attrs: map[string]string{"type": "text"}}
	password := &fakeElement{attrs: map[string]string{"type": "password"}}
	submit := &fakeElement{text: "Login"}
	sess := &fakeSession{}
	sess.setSnapshot(loginSnapshot(
		[]*fakeElement{username, password},
		[]*fakeElement{{text: "Cancel"}, submit},
	))

	cfg := testWatcherConfig()
	cfg.Username = "student42"
	cfg.Password = "hunter2"
	w := newTestWatcher(t, sess, cfg)

	require.Equal(t, loginSubmitted, w.login(context.Background()))
	assert.Equal(t, []string{"student42"}, username.filled)
	assert.Equal(t, []string{"hunter2"}, password.filled)
	assert.Equal(t, 1, submit.clicks)
}

func TestLoginMatchesPlaceholderHeuristics(t *testing.T) {
	t.Parallel()
	username := &fakeElement{attrs: map[string]string{"placeholder": "Email address"}}
	password := &fakeElement{attrs: map[string]string{"placeholder": "Your Password"}}
	submit := &fakeElement{text: "SIGN IN"}
	sess := &fakeSession{}
	sess.setSnapshot(loginSnapshot(
		[]*fakeElement{username, password},
		[]*fakeElement{submit},
	))

	cfg := testWatcherConfig()
	cfg.Username = "student42"
	cfg.Password = "hunter2"
	w := newTestWatcher(t, sess, cfg)

	require.Equal(t, loginSubmitted, w.login(context.Background()))
	assert.Equal(t, []string{"student42"}, username.filled)
	assert.Equal(t, []string{"hunter2"}, password.filled)
}

func TestLoginNotAttemptedWhenFormAmbiguous(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inputs  []*fakeElement
		buttons []*fakeElement
	}{
		{
			name:    "no password field",
			inputs:  []*fakeElement{{attrs: map[string]string{"type": "text"}}},
			buttons: []*fakeElement{{text: "Login"}},
		},
		{
			name:    "no username field",
			inputs:  []*fakeElement{{attrs: map[string]string{"type": "password"}}},
			buttons: []*fakeElement{{text: "Login"}},
		},
		{
			name: "no submit button",
			inputs: []*fakeElement{
				{attrs: map[string]string{"type": "text"}},
				{attrs: map[string]string{"type": "password"}},
			},
			buttons: []*fakeElement{{text: "Refresh"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sess := &fakeSession{}
			sess.setSnapshot(loginSnapshot(tt.inputs, tt.buttons))
			cfg := testWatcherConfig()
			cfg.Username = "student42"
			cfg.Password = "hunter2"
			w := newTestWatcher(t, sess, cfg)

			assert.Equal(t, loginNotAttempted, w.login(context.Background()))
			for _, b := range tt.buttons {
				assert.Zero(t, b.clicks, "ambiguous form must not be submitted")
			}
		})
	}
}

func TestLoginScanFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	sess := &fakeSession{}
	sess.setSnapshot(snapshot{findErr: errors.New("page reloading")})
	cfg := testWatcherConfig()
	cfg.Username = "student42"
	cfg.Password = "hunter2"
	w := newTestWatcher(t, sess, cfg)

	assert.Equal(t, loginNotAttempted, w.login(context.Background()))
}
