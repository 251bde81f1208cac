// Package config_test tests configuration loading, merging hierarchy, and environment variable overrides.
// Related: internal/config/config.go
// Tags: config, loading, merging, env-vars, json, precedence
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	clierrors "github.com/ariel-frischer/occtl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME, XDG_CONFIG_HOME and the working directory at a temp dir
// so no real config files are picked up. Callers cannot use t.Parallel().
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	t.Chdir(tmpDir)
	return tmpDir
}

func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ProviderAuto, cfg.Provider)
	assert.Equal(t, "opencode", cfg.Cmd)
	assert.Equal(t, 0, cfg.Port)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadyTimeout)
	assert.Equal(t, "right", cfg.Wezterm.Direction)
	assert.Equal(t, 35, cfg.Wezterm.Percent)
	assert.True(t, cfg.Log.File)
	assert.Empty(t, cfg.Sources)
}

func TestLoad_Precedence(t *testing.T) {
	tmpDir := isolate(t)

	writeJSON(t, filepath.Join(tmpDir, ".config", "occtl", "config.json"), `{
		"provider": "kitty",
		"port": 4096,
		"events": {"enabled": true}
	}`)
	localPath := filepath.Join(tmpDir, "project.json")
	writeJSON(t, localPath, `{"provider": "tmux", "tmux": {"options": "-v"}}`)
	t.Setenv("OCCTL_PORT", "5000")
	t.Setenv("OCCTL_WEZTERM__PERCENT", "50")

	cfg, err := Load(localPath)
	require.NoError(t, err)

	assert.Equal(t, "tmux", cfg.Provider, "local file overrides global")
	assert.Equal(t, "-v", cfg.Tmux.Options)
	assert.True(t, cfg.Events.Enabled, "global value survives when local omits it")
	assert.Equal(t, 5000, cfg.Port, "env overrides files")
	assert.Equal(t, 50, cfg.Wezterm.Percent, "nested env override")
	assert.Len(t, cfg.Sources, 2)
}

func TestLoad_DefaultLocalFile(t *testing.T) {
	tmpDir := isolate(t)
	writeJSON(t, filepath.Join(tmpDir, LocalFileName), `{"cmd": "opencode --model x"}`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "opencode --model x", cfg.Cmd)
	assert.Equal(t, []string{LocalFileName}, cfg.Sources)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := map[string]struct {
		content string
	}{
		"unknown provider":  {content: `{"provider": "screen"}`},
		"port out of range": {content: `{"port": 70000}`},
		"empty cmd":         {content: `{"cmd": ""}`},
		"bad direction":     {content: `{"wezterm": {"direction": "up"}}`},
		"bad percent":       {content: `{"wezterm": {"percent": 100}}`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := isolate(t)
			path := filepath.Join(tmpDir, "bad.json")
			writeJSON(t, path, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			cliErr := clierrors.AsCLIError(err)
			require.NotNil(t, cliErr)
			assert.Equal(t, clierrors.Configuration, cliErr.Category)
		})
	}
}

func TestLoad_ParseError(t *testing.T) {
	tmpDir := isolate(t)
	path := filepath.Join(tmpDir, "broken.json")
	writeJSON(t, path, `{"provider": `)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"top level":          {input: "OCCTL_PROVIDER", want: "provider"},
		"nested":             {input: "OCCTL_EVENTS__ENABLED", want: "events.enabled"},
		"nested underscores": {input: "OCCTL_LOG__MAX_SIZE_MB", want: "log.max_size_mb"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, envTransform(tt.input))
		})
	}
}

func TestPaths_HonourXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	assert.Equal(t, filepath.Join("/xdg/config", "occtl", "config.json"), GlobalPath())
	assert.Equal(t, filepath.Join("/xdg/state", "occtl"), StateDir())
	assert.Equal(t, filepath.Join("/run/user/1000", "occtl"), RuntimeDir())
}

func TestShow(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Show(&buf, cfg))
	assert.Contains(t, buf.String(), `"provider": "auto"`)
	assert.Contains(t, buf.String(), "defaults only")
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	tmpDir := isolate(t)

	_, err := Load(filepath.Join(tmpDir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Equal(t, ProviderAuto, cfg.Provider)
	assert.Equal(t, "-h -l 35%", cfg.Tmux.Options)
	assert.NoError(t, cfg.Validate())
}

func TestDocument_DurationsAsStrings(t *testing.T) {
	t.Parallel()

	doc, err := Document(Defaults())
	require.NoError(t, err)

	v, ok := GetNestedValue(doc, []string{"server", "ready_timeout"})
	require.True(t, ok)
	assert.Equal(t, "10s", v)

	v, ok = GetNestedValue(doc, []string{"wezterm", "direction"})
	require.True(t, ok)
	assert.Equal(t, "right", v)
}
