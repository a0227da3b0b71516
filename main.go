// ./main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/avolkov-io/webclicker-cli/cmd"
	"github.com/avolkov-io/webclicker-cli/internal/observability"
)

// Allows mocking os.Exit in tests.
var osExit = os.Exit

// main is the entry point for the webclicker CLI.
func main() {
	// Set up a context that listens for interrupt signals (SIGINT, SIGTERM)
	// so the watch loop can shut down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)

	// Flush buffered log entries before the process exits.
	observability.Sync()

	if err != nil {
		// An interrupt during the watch loop is a clean shutdown, not a failure.
		if errors.Is(err, context.Canceled) {
			osExit(0)
		}
		osExit(1)
	}
}
