// File: internal/browser/context_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled in time")
	}
}

func TestCombineContextInheritsValues(t *testing.T) {
	t.Parallel()

	type key struct{}
	primary := context.WithValue(context.Background(), key{}, "target")

	combined, cancel := combineContext(primary, context.Background())
	defer cancel()

	assert.Equal(t, "target", combined.Value(key{}))
}

func TestCombineContextCanceledBySecondary(t *testing.T) {
	t.Parallel()

	secondary, cancelSecondary := context.WithCancel(context.Background())
	combined, cancel := combineContext(context.Background(), secondary)
	defer cancel()

	cancelSecondary()
	waitDone(t, combined)
	require.ErrorIs(t, combined.Err(), context.Canceled)
}

func TestCombineContextCanceledByPrimary(t *testing.T) {
	t.Parallel()

	primary, cancelPrimary := context.WithCancel(context.Background())
	combined, cancel := combineContext(primary, context.Background())
	defer cancel()

	cancelPrimary()
	waitDone(t, combined)
}

func TestAwaitDoneReturnsWhenFnFinishes(t *testing.T) {
	t.Parallel()

	ran := false
	err := awaitDone(context.Background(), func() { ran = true })
	require.NoError(t, err)
	assert.True(t, ran)
}

// The deadline branch must actually be reachable: a shutdown that hangs
// past the caller's deadline surfaces the context error instead of
// blocking forever.
func TestAwaitDoneHonorsDeadline(t *testing.T) {
	t.Parallel()

	blocked := make(chan struct{})
	defer close(blocked)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := awaitDone(ctx, func() { <-blocked })
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCombineContextCancelReleasesGoroutine(t *testing.T) {
	t.Parallel()

	combined, cancel := combineContext(context.Background(), context.Background())
	cancel()
	waitDone(t, combined)
}
