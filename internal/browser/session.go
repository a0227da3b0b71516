// File: internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avolkov-io/webclicker-cli/internal/config"
)

// chromeSession drives a single Chrome instance over CDP. It owns both
// the allocator (browser process) context and the tab context; closing
// the session tears down both.
type chromeSession struct {
	id     string
	cfg    config.BrowserConfig
	logger *zap.Logger

	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	closeOnce sync.Once
}

var _ Session = (*chromeSession)(nil)

// NewSession launches a browser and verifies it responds. Acquisition
// follows a two-step retry policy: first the driver's default discovery,
// then a single retry with the executable resolved from platform
// well-known locations. Only after both fail is the error fatal.
func NewSession(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (Session, error) {
	sessionID := uuid.New().String()
	log := logger.Named("browser").With(zap.String("session_id", sessionID))

	opts := buildAllocatorOptions(cfg)

	s, err := startBrowser(ctx, sessionID, cfg, log, opts)
	if err == nil {
		return s, nil
	}
	log.Warn("Browser failed to start with default discovery, trying well-known locations", zap.Error(err))

	execPath := cfg.ExecPath
	if execPath == "" {
		execPath, err = findChrome()
		if err != nil {
			return nil, fmt.Errorf("browser startup failed and no fallback executable was found: %w", err)
		}
	}
	probeVersion(ctx, execPath, log)

	s, err = startBrowser(ctx, sessionID, cfg, log, append(opts, chromedp.ExecPath(execPath)))
	if err != nil {
		return nil, fmt.Errorf("browser startup failed after fallback to %s: %w", execPath, err)
	}
	return s, nil
}

// buildAllocatorOptions assembles the launch flags for the browser
// process: fixed viewport, no extensions, no notification or popup
// prompts that could cover the poll markup.
func buildAllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)

	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	// Pass through any extra flags from the config file.
	for _, arg := range cfg.Args {
		parts := strings.SplitN(arg, "=", 2)
		name := strings.TrimPrefix(parts[0], "--")
		if len(parts) == 2 {
			opts = append(opts, chromedp.Flag(name, parts[1]))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}

	// Flags required for running inside containers.
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}

	return opts
}

// startBrowser creates the allocator and tab contexts and confirms the
// browser is alive by loading about:blank under the startup timeout.
func startBrowser(ctx context.Context, id string, cfg config.BrowserConfig, log *zap.Logger, opts []chromedp.ExecAllocatorOption) (*chromeSession, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	startup := cfg.StartupTimeout
	if startup <= 0 {
		startup = 30 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(tabCtx, startup)
	defer cancel()

	if err := chromedp.Run(probeCtx, chromedp.Navigate("about:blank")); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("browser failed to start or respond: %w", err)
	}

	log.Info("Browser launched and responsive", zap.Bool("headless", cfg.Headless))
	return &chromeSession{
		id:          id,
		cfg:         cfg,
		logger:      log,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}, nil
}

// ID returns the session ID.
func (s *chromeSession) ID() string {
	return s.id
}

// Close terminates the tab and the browser process. Safe to call more
// than once.
func (s *chromeSession) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.logger.Info("Closing browser session")

		// Graceful close first: chromedp.Cancel asks the browser to shut
		// down and waits for the process to exit, bounded here by the
		// caller's deadline.
		err := awaitDone(ctx, func() {
			if err := chromedp.Cancel(s.tabCtx); err != nil {
				s.logger.Debug("Graceful browser close reported an error", zap.Error(err))
			}
		})
		if err != nil {
			s.logger.Warn("Browser did not confirm shutdown before deadline", zap.Error(err))
		}

		s.tabCancel()
		s.allocCancel()
	})
	return nil
}

// Navigate loads a URL in the session's tab.
func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	s.logger.Info("Navigating", zap.String("url", url))
	timeout := s.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if err := s.run(ctx, timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// FindByTextContains returns every element whose text contains substr.
func (s *chromeSession) FindByTextContains(ctx context.Context, substr string) ([]Element, error) {
	expr := fmt.Sprintf("//*[contains(text(), %s)]", xpathLiteral(substr))
	return s.findNodes(ctx, expr, chromedp.BySearch)
}

// FindBySelector returns every element matching the CSS selector.
func (s *chromeSession) FindBySelector(ctx context.Context, selector string) ([]Element, error) {
	return s.findNodes(ctx, selector, chromedp.ByQueryAll)
}

// FindByTag returns every element with the given tag name.
func (s *chromeSession) FindByTag(ctx context.Context, tag string) ([]Element, error) {
	return s.findNodes(ctx, tag, chromedp.ByQueryAll)
}

func (s *chromeSession) findNodes(ctx context.Context, query string, by chromedp.QueryOption) ([]Element, error) {
	var nodes []*cdp.Node
	// AtLeast(0) makes an empty result a result, not a wait.
	err := s.run(ctx, s.queryTimeout(), chromedp.Nodes(query, &nodes, by, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("DOM query %q failed: %w", query, err)
	}
	elems := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elems = append(elems, &chromeElement{sess: s, node: n})
	}
	return elems, nil
}

func (s *chromeSession) queryTimeout() time.Duration {
	if s.cfg.QueryTimeout > 0 {
		return s.cfg.QueryTimeout
	}
	return 10 * time.Second
}

// run executes chromedp actions against the session tab, bounded by the
// caller's context and the given timeout. The tab context carries the
// CDP target, so the combined context must derive from it.
func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := combineContext(s.tabCtx, ctx)
	defer cancel()
	opCtx, cancelTimeout := context.WithTimeout(opCtx, timeout)
	defer cancelTimeout()
	return chromedp.Run(opCtx, actions...)
}

// xpathLiteral quotes s as an XPath string literal. XPath 1.0 has no
// escaping, so strings holding both quote kinds need concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
