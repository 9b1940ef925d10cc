package logs

import (
	"bytes"
	"log/slog"
	"testing"

	"authsvc/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}

	for input, want := range tests {
		got, err := parseLogLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}

func TestNewLogger_RedactsCredentials(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.ServiceName = "authsvc"
	cfg.Env.Log.Level = "debug"

	var buf bytes.Buffer
	logger, err := newLogger(cfg, &buf)
	require.NoError(t, err)

	logger.Info("login attempt",
		slog.String("login", "alice"),
		slog.String("password", "secret1"),
		slog.String("token", "eyJ..."),
	)

	out := buf.String()
	assert.Contains(t, out, `"login":"alice"`)
	assert.Contains(t, out, `"service":"authsvc"`)
	assert.NotContains(t, out, "secret1")
	assert.NotContains(t, out, "eyJ")
	assert.Contains(t, out, redacted)
}

func TestNewLogger_PrettyUsesText(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Log.Pretty = true

	var buf bytes.Buffer
	logger, err := newLogger(cfg, &buf)
	require.NoError(t, err)

	logger.Info("hello", slog.String("k", "v"))
	assert.Contains(t, buf.String(), "k=v")
}
