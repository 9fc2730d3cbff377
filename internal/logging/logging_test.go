package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"isomap/internal/logging"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	logging.SetLogger(nil)
	assert.False(t, logging.Logger().Enabled(context.Background(), slog.LevelError))
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(logging.NewText(&buf, slog.LevelDebug))
	t.Cleanup(func() { logging.SetLogger(nil) })

	logging.Logger().Debug("levels generated", "count", 4)
	assert.Contains(t, buf.String(), "levels generated")
	assert.Contains(t, buf.String(), "count=4")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, logging.ParseLevel(in), in)
	}
}
