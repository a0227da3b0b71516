// File: internal/browser/context.go
package browser

import "context"

// combineContext derives a context from primary that is additionally
// canceled when secondary is canceled. The primary context carries the
// CDP target values, so it must be the one derived from; the secondary
// carries the caller's operational deadline.
func combineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)

	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}

// awaitDone runs fn and waits for it to finish, bounded by ctx. Returns
// ctx.Err() when the deadline wins; fn keeps running in that case.
func awaitDone(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
