package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromString("DEBUG"))
	assert.Equal(t, slog.LevelWarn, LevelFromString(" warning "))
	assert.Equal(t, slog.LevelError, LevelFromString("error"))
	assert.Equal(t, slog.LevelInfo, LevelFromString("verbose"))
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "item_id", 7)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "item_id=7")
}
