// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov-io/webclicker-cli/internal/config"
)

// syncBuffer adapts a bytes.Buffer to zapcore.WriteSyncer.
type syncBuffer struct {
	bytes.Buffer
}

func (*syncBuffer) Sync() error { return nil }

func testLoggerConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "webclicker-test",
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	// The nop logger must accept writes without panicking.
	assert.NotPanics(t, func() { logger.Info("ignored") })
}

func TestInitializeWritesStructuredOutput(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf syncBuffer
	Initialize(testLoggerConfig(), &buf)

	GetLogger().Info("poll check")
	out := buf.String()
	assert.Contains(t, out, "poll check")
	assert.Contains(t, out, "webclicker-test")
}

func TestInitializeRespectsLevel(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := testLoggerConfig()
	cfg.Level = "warn"

	var buf syncBuffer
	Initialize(cfg, &buf)

	GetLogger().Info("suppressed")
	GetLogger().Warn("surfaced")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "surfaced")
}

func TestInitializeInvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := testLoggerConfig()
	cfg.Level = "shouting"

	var buf syncBuffer
	Initialize(cfg, &buf)

	GetLogger().Debug("below default")
	GetLogger().Info("at default")

	out := buf.String()
	assert.NotContains(t, out, "below default")
	assert.Contains(t, out, "at default")
}

func TestInitializeIsIdempotent(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second syncBuffer
	Initialize(testLoggerConfig(), &first)
	Initialize(testLoggerConfig(), &second)

	GetLogger().Info("only once")
	assert.Contains(t, first.String(), "only once")
	assert.Empty(t, second.String())
}

func TestSyncWithoutLoggerIsNoop(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	assert.NotPanics(t, Sync)
}
