package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests here mutate the global logger and must not run in parallel.

func TestDefaultLoggerIsNop(t *testing.T) {
	Log = zerolog.Nop()
	assert.Equal(t, zerolog.Disabled, Log.GetLevel())
	Info().Msg("discarded") // must not panic
}

func TestInitLevels(t *testing.T) {
	tests := map[string]struct {
		debug bool
		want  zerolog.Level
	}{
		"info by default": {debug: false, want: zerolog.InfoLevel},
		"debug flag":      {debug: true, want: zerolog.DebugLevel},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			Init(tt.debug)
			assert.Equal(t, tt.want, Log.GetLevel())
		})
	}
}

func TestInitWithWriter_CapturesOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, false)

	Warn().Str("port", "4096").Msg("subscription failed")
	Debug().Msg("hidden at info level")

	out := buf.String()
	assert.Contains(t, out, "subscription failed")
	assert.Contains(t, out, `"level":"warn"`)
	assert.NotContains(t, out, "hidden at info level")
}

func TestInitWithFile_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitWithFile(true, dir, &LoggingConfig{FileEnabled: true, MaxSizeMB: 1}))
	t.Cleanup(func() { _ = CloseFileWriter() })

	Info().Msg("hello file")
	assert.Equal(t, filepath.Join(dir, FileName), GetLogFilePath())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestInitWithFile_DisabledFallsBackToConsole(t *testing.T) {
	require.NoError(t, InitWithFile(false, t.TempDir(), &LoggingConfig{FileEnabled: false}))
	assert.Empty(t, GetLogFilePath())
	assert.NoError(t, CloseFileWriter())
}

func TestLoggingConfigDefaults(t *testing.T) {
	cfg := &LoggingConfig{}
	assert.Equal(t, 10, cfg.GetMaxSizeMB())
	assert.Equal(t, 7, cfg.GetMaxAgeDays())
	assert.Equal(t, 3, cfg.GetMaxBackups())

	cfg = &LoggingConfig{MaxSizeMB: 50, MaxAgeDays: 1, MaxBackups: 9}
	assert.Equal(t, 50, cfg.GetMaxSizeMB())
	assert.Equal(t, 1, cfg.GetMaxAgeDays())
	assert.Equal(t, 9, cfg.GetMaxBackups())
}
