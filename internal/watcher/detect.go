// File: internal/watcher/detect.go
package watcher

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/avolkov-io/webclicker-cli/internal/browser"
)

// pollActive reports whether a poll is currently being presented.
//
// The classification is a best-effort probe of uncontrolled markup:
// first the idle banner text, then the answer-element selector, then
// bare buttons captioned with a recognized label. Any query failure
// counts as inactive so an uncertain state is never answered.
func (w *Watcher) pollActive(ctx context.Context) bool {
	banners, err := w.session.FindByTextContains(ctx, w.cfg.NoPollText)
	if err != nil {
		w.logger.Warn("Poll-state detection failed, assuming inactive", zap.Error(err))
		return false
	}
	if len(banners) > 0 {
		return false
	}

	hits, err := w.session.FindBySelector(ctx, w.cfg.ChoiceSelector)
	if err != nil {
		w.logger.Warn("Answer-element query failed, assuming inactive", zap.Error(err))
		return false
	}
	if len(hits) > 0 {
		return true
	}

	buttons, err := w.session.FindByTag(ctx, "button")
	if err != nil {
		w.logger.Warn("Button scan failed, assuming inactive", zap.Error(err))
		return false
	}
	for _, b := range buttons {
		text, err := b.Text(ctx)
		if err != nil {
			continue
		}
		if _, ok := w.labels[strings.TrimSpace(text)]; ok {
			return true
		}
	}
	return false
}

// answerChoices enumerates the currently clickable answer options.
//
// The primary strategy is the configured CSS selector, labeling each hit
// from its data-choice attribute or its text. Only when the selector
// matches nothing at all does the fallback scan buttons for recognized
// labels. Failures yield an empty list, never an error.
func (w *Watcher) answerChoices(ctx context.Context) []Choice {
	elems, err := w.session.FindBySelector(ctx, w.cfg.ChoiceSelector)
	if err != nil {
		w.logger.Warn("Choice enumeration failed", zap.Error(err))
		return nil
	}

	var choices []Choice
	if len(elems) == 0 {
		buttons, err := w.session.FindByTag(ctx, "button")
		if err != nil {
			w.logger.Warn("Fallback button scan failed", zap.Error(err))
			return nil
		}
		for _, b := range buttons {
			text, err := b.Text(ctx)
			if err != nil {
				continue
			}
			label := strings.TrimSpace(text)
			if _, ok := w.labels[label]; ok {
				choices = append(choices, Choice{Element: b, Label: label})
			}
		}
	} else {
		for _, e := range elems {
			label := w.choiceLabel(ctx, e)
			if label == "" {
				continue
			}
			choices = append(choices, Choice{Element: e, Label: label})
		}
	}

	w.logger.Info("Found answer choices", zap.Int("count", len(choices)))
	return choices
}

// choiceLabel derives a label for a selector-matched element: the
// data-choice attribute when present, otherwise the trimmed text.
func (w *Watcher) choiceLabel(ctx context.Context, e browser.Element) string {
	if value, ok, err := e.Attribute(ctx, "data-choice"); err == nil && ok && value != "" {
		return value
	}
	text, err := e.Text(ctx)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// answer picks one choice uniformly at random and clicks it. An empty
// choice list or a failed click is logged and reported as false; the
// loop retries on the next cycle.
func (w *Watcher) answer(ctx context.Context, choices []Choice) bool {
	if len(choices) == 0 {
		w.logger.Warn("Poll is active but no answer choices were found")
		return false
	}

	pick := choices[w.rng.Intn(len(choices))]
	w.logger.Info("Randomly selected answer", zap.String("label", pick.Label))

	if err := pick.Element.Click(ctx); err != nil {
		w.logger.Error("Failed to click answer choice", zap.String("label", pick.Label), zap.Error(err))
		return false
	}
	w.logger.Info("Clicked answer", zap.String("label", pick.Label))
	return true
}
