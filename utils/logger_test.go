package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*Logger, *bytes.Buffer) {
	logger := NewLogger()
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	return logger, buf
}

// TestLogger_LevelFiltering tests that messages below the configured
// level are dropped
func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger()
	logger.SetLevel(WARN)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
}

// TestLogger_TextFormat tests the text layout with level and fields
func TestLogger_TextFormat(t *testing.T) {
	logger, buf := newTestLogger()

	logger.Info("Reminder sent", String("user", "Fred Flintstone"), Int("actions", 2))

	output := buf.String()
	assert.Contains(t, output, "[INFO] Reminder sent")
	assert.Contains(t, output, "user=Fred Flintstone")
	assert.Contains(t, output, "actions=2")
}

// TestLogger_JSONFormat tests that JSON output is parseable and carries
// the structured fields
func TestLogger_JSONFormat(t *testing.T) {
	logger, buf := newTestLogger()
	logger.SetFormat("json")

	logger.Error("Scheduled run failed", errors.New("boom"), Int("exit_code", 1))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "Scheduled run failed", entry.Message)
	assert.Equal(t, "reminders", entry.Service)
	assert.Equal(t, "boom", entry.Error)
	assert.Equal(t, float64(1), entry.Fields["exit_code"])
}

// TestLogger_ErrorWithoutErr tests that a nil error is not rendered
func TestLogger_ErrorWithoutErr(t *testing.T) {
	logger, buf := newTestLogger()

	logger.Error("something failed", nil)

	output := buf.String()
	assert.Contains(t, output, "[ERROR] something failed")
	assert.NotContains(t, output, "error=")
}

// TestLogLevel_String tests the level names
func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "INFO", INFO.String())
	assert.Equal(t, "WARN", WARN.String())
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

// TestGetLogger_Singleton tests that the global logger is shared
func TestGetLogger_Singleton(t *testing.T) {
	assert.Same(t, GetLogger(), GetLogger())
}

// TestInitLogger_ConfiguresGlobal tests the global logger configuration
// from config strings
func TestInitLogger_ConfiguresGlobal(t *testing.T) {
	logger := GetLogger()
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	defer func() {
		logger.SetOutput(os.Stderr)
		InitLogger("info", "text")
	}()

	InitLogger("error", "text")

	logger.Warn("should be dropped")
	logger.Error("should appear", nil)

	output := buf.String()
	assert.NotContains(t, output, "should be dropped")
	assert.Contains(t, output, "should appear")
}
