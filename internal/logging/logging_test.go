package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetup_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := Setup(&buf, "warn", "")
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("could not load schema file", "path", "models/marts/schema.yml")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "path=models/marts/schema.yml")
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, _, err := Setup(&bytes.Buffer{}, "loud", "")
	assert.Error(t, err)
}

func TestMultiHandler(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(h).With("table", "mart_claims")
	logger.Info("described")
	logger.Error("failed")

	assert.Contains(t, debugBuf.String(), "msg=described table=mart_claims")
	assert.Contains(t, debugBuf.String(), "msg=failed")
	assert.NotContains(t, errorBuf.String(), "described")
	assert.Contains(t, errorBuf.String(), "msg=failed table=mart_claims")
}
