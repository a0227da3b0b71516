// File: internal/watcher/watcher.go
// Description: The poll-watching loop. It owns a browser session,
// optionally logs in, and then repeatedly classifies the page state,
// answering each active poll exactly once.

package watcher

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/avolkov-io/webclicker-cli/internal/browser"
	"github.com/avolkov-io/webclicker-cli/internal/config"
)

// State is the watcher's view of the current poll cycle.
type State int

const (
	// StateInactive: no poll is being presented.
	StateInactive State = iota
	// StateActiveUnanswered: a poll is up and we have not clicked yet.
	StateActiveUnanswered
	// StateActiveAnswered: the current poll has been answered; wait for
	// it to close before answering again.
	StateActiveAnswered
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActiveUnanswered:
		return "active_unanswered"
	case StateActiveAnswered:
		return "active_answered"
	default:
		return "unknown"
	}
}

// Choice is one clickable answer option with its label.
type Choice struct {
	Element browser.Element
	Label   string
}

// Watcher drives a browser session through the poll-answering loop.
// It is single-threaded: one sequential loop, no shared mutable state.
type Watcher struct {
	session browser.Session
	cfg     config.WatcherConfig
	logger  *zap.Logger
	rng     *rand.Rand
	labels  map[string]struct{}
	state   State
}

// New creates a Watcher that owns the given session. The session is
// closed when Run returns, on every exit path.
func New(session browser.Session, cfg config.WatcherConfig, logger *zap.Logger) *Watcher {
	labels := make(map[string]struct{}, len(cfg.Labels))
	for _, l := range cfg.Labels {
		labels[l] = struct{}{}
	}
	return &Watcher{
		session: session,
		cfg:     cfg,
		logger:  logger.Named("watcher"),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		labels:  labels,
		state:   StateInactive,
	}
}

// State returns the watcher's current loop state.
func (w *Watcher) State() State {
	return w.state
}

// Run navigates to the target page, attempts a best-effort login, and
// then loops until the context is canceled or, when MaxChecks is set,
// until that many checks have completed. Context cancellation is a clean
// shutdown, not an error; only navigation failure at startup is fatal.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.session.Close(closeCtx); err != nil {
			w.logger.Warn("Error closing browser session", zap.Error(err))
		}
		w.logger.Info("Watcher stopped")
	}()

	w.logger.Info("Starting poll watcher",
		zap.String("url", w.cfg.URL),
		zap.Duration("interval", w.cfg.Interval),
		zap.Strings("labels", w.cfg.Labels),
	)

	if err := w.session.Navigate(ctx, w.cfg.URL); err != nil {
		return err
	}
	w.login(ctx)

	interval := w.cfg.Interval
	if interval <= 0 {
		interval = config.DefaultInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for checks := 0; ; {
		if ctx.Err() != nil {
			w.logger.Info("Shutdown requested, stopping watcher")
			return nil
		}

		w.step(ctx)

		checks++
		if w.cfg.MaxChecks > 0 && checks >= w.cfg.MaxChecks {
			w.logger.Info("Reached configured check limit", zap.Int("checks", checks))
			return nil
		}

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			w.logger.Info("Shutdown requested, stopping watcher")
			return nil
		case <-timer.C:
		}
	}
}

// step runs one detection/answer cycle and advances the state machine.
// No error escapes a step: every failure inside an iteration is logged
// and absorbed so the loop keeps running.
func (w *Watcher) step(ctx context.Context) {
	active := w.pollActive(ctx)

	switch {
	case active && w.state == StateActiveAnswered:
		// Already answered this poll; wait for it to close.

	case active:
		if w.state == StateInactive {
			w.logger.Info("Active poll detected")
		}
		if w.answer(ctx, w.answerChoices(ctx)) {
			w.state = StateActiveAnswered
			w.logger.Info("Poll answered, waiting for the next one")
		} else {
			// Stay unanswered and retry on the next cycle.
			w.state = StateActiveUnanswered
		}

	case w.state != StateInactive:
		// The answered flag resets exactly on the active to inactive
		// transition so the next poll gets answered again.
		w.logger.Info("Poll closed", zap.Stringer("previous_state", w.state))
		w.state = StateInactive
	}
}
