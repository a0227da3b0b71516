// File: cmd/watch.go
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/avolkov-io/webclicker-cli/internal/browser"
	"github.com/avolkov-io/webclicker-cli/internal/config"
	"github.com/avolkov-io/webclicker-cli/internal/observability"
	"github.com/avolkov-io/webclicker-cli/internal/watcher"
)

// newSession is an injection point so command tests can substitute a
// fake browser session.
var newSession = browser.NewSession

// newWatchCmd creates and configures the `watch` command.
func newWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watches a WebClicker page and answers each poll with a random choice",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so command-line values
			// override the config file and environment.
			for flag, key := range map[string]string{
				"url":        "watcher.url",
				"headless":   "browser.headless",
				"username":   "watcher.username",
				"password":   "watcher.password",
				"max-checks": "watcher.max_checks",
			} {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// The context passed from main is signal-aware; an interrupt
			// cancels it and the loop winds down cleanly.
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			// The interval flag default (5s) deliberately differs from
			// the library default (10s). The flag wins whenever it was
			// passed; an unset flag yields to an explicit config-file or
			// environment value before its default applies.
			_, intervalFromEnv := os.LookupEnv("WEBCLICKER_WATCHER_INTERVAL")
			if cmd.Flags().Changed("interval") || (!viper.InConfig("watcher.interval") && !intervalFromEnv) {
				seconds, err := cmd.Flags().GetInt("interval")
				if err != nil {
					return err
				}
				if seconds <= 0 {
					return fmt.Errorf("--interval must be a positive number of seconds")
				}
				cfg.Watcher.Interval = time.Duration(seconds) * time.Second
			}

			if cfg.Watcher.URL == "" {
				return fmt.Errorf("a target URL is required (--url)")
			}
			if !strings.HasPrefix(cfg.Watcher.URL, "http://") && !strings.HasPrefix(cfg.Watcher.URL, "https://") {
				cfg.Watcher.URL = "https://" + cfg.Watcher.URL
			}

			sess, err := newSession(ctx, cfg.Browser, logger)
			if err != nil {
				return fmt.Errorf("failed to acquire browser session: %w", err)
			}

			// The watcher owns the session from here on and closes it on
			// every exit path, including interrupt. A failure past this
			// point rides the shutdown path: the browser has already been
			// released, so log it and exit clean. Only the startup-class
			// errors above terminate with a non-zero status.
			if err := watcher.New(sess, cfg.Watcher, logger).Run(ctx); err != nil {
				logger.Error("Watch loop failed", zap.Error(err))
			}

			logger.Info("WebClicker automation stopped")
			return nil
		},
	}

	watchCmd.Flags().String("url", "", "Target WebClicker page URL (required)")
	watchCmd.Flags().Int("interval", 5, "Seconds between poll-state checks")
	watchCmd.Flags().Bool("headless", false, "Run the browser without a visible window")
	watchCmd.Flags().String("username", "", "Username for the optional login step")
	watchCmd.Flags().String("password", "", "Password for the optional login step")
	watchCmd.Flags().Int("max-checks", 0, "Stop after this many checks (0 = run until interrupted)")

	return watchCmd
}
