package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestLogger_IncludesRequestIDAndOperation(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	setup(&buf, "info", "development")

	ctx := WithRequestID(context.Background(), "req-42")
	NewLogger(ctx).LogError("save_project", errors.New("disk full"))

	out := buf.String()
	assert.Contains(t, out, "request_id=req-42")
	assert.Contains(t, out, "operation=save_project")
	assert.Contains(t, out, "disk full")
}

func TestLogger_UnknownRequestID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	setup(&buf, "debug", "production")

	NewLogger(context.Background()).LogInfof("autosave", "saved %d projects", 2)
	assert.Contains(t, buf.String(), `"request_id":"unknown"`)
	assert.Contains(t, buf.String(), "saved 2 projects")
}
