// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "webclicker", cfg.Logger.ServiceName)

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 1920, cfg.Browser.WindowWidth)
	assert.Equal(t, 1080, cfg.Browser.WindowHeight)
	assert.Equal(t, 10*time.Second, cfg.Browser.QueryTimeout)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigationTimeout)

	// The library default interval is 10s; the watch command layers its
	// own 5s default on top. Both are intentional.
	assert.Equal(t, DefaultInterval, cfg.Watcher.Interval)
	assert.Equal(t, 10*time.Second, DefaultInterval)

	// The recognized label set stays narrow until the site proves it
	// renders more than A/B as bare button text.
	if diff := cmp.Diff([]string{"A", "B"}, cfg.Watcher.Labels); diff != "" {
		t.Errorf("default label set mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "No current poll", cfg.Watcher.NoPollText)
	assert.Contains(t, cfg.Watcher.ChoiceSelector, "data-choice")
	assert.Zero(t, cfg.Watcher.MaxChecks)

	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromViper(t *testing.T) {
	t.Parallel()
	v := viper.New()
	SetDefaults(v)
	v.Set("watcher.url", "https://clicker.example.edu")
	v.Set("watcher.interval", "2s")
	v.Set("watcher.labels", []string{"A", "B", "C", "D", "E"})
	v.Set("browser.headless", true)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "https://clicker.example.edu", cfg.Watcher.URL)
	assert.Equal(t, 2*time.Second, cfg.Watcher.Interval)
	assert.Len(t, cfg.Watcher.Labels, 5)
	assert.True(t, cfg.Browser.Headless)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "non-positive interval",
			mutate:  func(c *Config) { c.Watcher.Interval = 0 },
			wantErr: "watcher.interval",
		},
		{
			name:    "empty label set",
			mutate:  func(c *Config) { c.Watcher.Labels = nil },
			wantErr: "watcher.labels",
		},
		{
			name:    "empty idle text",
			mutate:  func(c *Config) { c.Watcher.NoPollText = "" },
			wantErr: "watcher.no_poll_text",
		},
		{
			name:    "empty choice selector",
			mutate:  func(c *Config) { c.Watcher.ChoiceSelector = "" },
			wantErr: "watcher.choice_selector",
		},
		{
			name:    "non-positive query timeout",
			mutate:  func(c *Config) { c.Browser.QueryTimeout = -time.Second },
			wantErr: "browser.query_timeout",
		},
		{
			name:    "non-positive navigation timeout",
			mutate:  func(c *Config) { c.Browser.NavigationTimeout = 0 },
			wantErr: "browser.navigation_timeout",
		},
		{
			name:    "negative max checks",
			mutate:  func(c *Config) { c.Watcher.MaxChecks = -1 },
			wantErr: "watcher.max_checks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
