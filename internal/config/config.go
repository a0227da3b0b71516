// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Watcher WatcherConfig `mapstructure:"watcher" yaml:"watcher"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the browser instance driven by the
// watch loop.
type BrowserConfig struct {
	Headless bool `mapstructure:"headless" yaml:"headless"`
	// ExecPath pins the browser executable. When empty, the driver's
	// default discovery runs first, then the platform well-known
	// locations as a fallback.
	ExecPath     string   `mapstructure:"exec_path" yaml:"exec_path"`
	Args         []string `mapstructure:"args" yaml:"args"`
	WindowWidth  int      `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight int      `mapstructure:"window_height" yaml:"window_height"`
	// QueryTimeout bounds every individual DOM query and click.
	QueryTimeout      time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	StartupTimeout    time.Duration `mapstructure:"startup_timeout" yaml:"startup_timeout"`
}

// WatcherConfig configures the poll-watching loop.
type WatcherConfig struct {
	URL      string        `mapstructure:"url" yaml:"url"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Username string        `mapstructure:"username" yaml:"username"`
	Password string        `mapstructure:"password" yaml:"password"`
	// Labels is the recognized set of answer-button captions used by the
	// fallback detection strategy. The upstream site renders up to five
	// choices (A-E) but only A and B have ever been observed as bare
	// button text, so the default stays narrow. Widen it here if the
	// markup changes.
	Labels []string `mapstructure:"labels" yaml:"labels"`
	// ChoiceSelector is the primary CSS selector for answer elements.
	ChoiceSelector string `mapstructure:"choice_selector" yaml:"choice_selector"`
	// NoPollText is the page text that marks the idle state.
	NoPollText string `mapstructure:"no_poll_text" yaml:"no_poll_text"`
	// MaxChecks bounds the loop for scripted runs. 0 means run until
	// interrupted.
	MaxChecks int `mapstructure:"max_checks" yaml:"max_checks"`
}

// DefaultInterval is the library-level default pause between poll checks.
// The watch command applies its own, shorter default of 5s; both values
// are deliberate and must not be unified.
const DefaultInterval = 10 * time.Second

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "webclicker")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.query_timeout", "10s")
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.startup_timeout", "30s")

	// -- Watcher --
	v.SetDefault("watcher.interval", DefaultInterval)
	v.SetDefault("watcher.labels", []string{"A", "B"})
	v.SetDefault("watcher.choice_selector", "button[class*='answer'], .answer-option, button[data-choice]")
	v.SetDefault("watcher.no_poll_text", "No current poll")
	v.SetDefault("watcher.max_checks", 0)
}

// NewDefaultConfig creates a configuration struct populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with the defaults above.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values. The target URL is
// validated separately by the watch command since other commands do not
// need one.
func (c *Config) Validate() error {
	if c.Watcher.Interval <= 0 {
		return fmt.Errorf("watcher.interval must be a positive duration")
	}
	if len(c.Watcher.Labels) == 0 {
		return fmt.Errorf("watcher.labels must contain at least one label")
	}
	if c.Watcher.NoPollText == "" {
		return fmt.Errorf("watcher.no_poll_text must not be empty")
	}
	if c.Watcher.ChoiceSelector == "" {
		return fmt.Errorf("watcher.choice_selector must not be empty")
	}
	if c.Browser.QueryTimeout <= 0 {
		return fmt.Errorf("browser.query_timeout must be a positive duration")
	}
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}
	if c.Watcher.MaxChecks < 0 {
		return fmt.Errorf("watcher.max_checks must not be negative")
	}
	return nil
}
