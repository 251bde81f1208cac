package opencode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/occtl/internal/provider/providertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cmd         string
		found       []string
		version     string
		versionErr  error
		wantErr     bool
		wantPath    string
		wantVersion string
	}{
		"found with version": {
			cmd:         "opencode --port 4096",
			found:       []string{"opencode"},
			version:     "0.15.2\n",
			wantPath:    "/usr/bin/opencode",
			wantVersion: "0.15.2",
		},
		"version probe fails": {
			cmd:        "opencode",
			found:      []string{"opencode"},
			versionErr: errors.New("exit status 1"),
			wantPath:   "/usr/bin/opencode",
		},
		"not installed": {
			cmd:     "opencode",
			wantErr: true,
		},
		"empty command": {
			cmd:     "  ",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r := (&providertest.Runner{}).On("/usr/bin/opencode --version", tt.version, tt.versionErr)
			d := Detector{Runner: r, LookPath: providertest.LookPath(tt.found...)}

			exe, err := d.Detect(context.Background(), tt.cmd)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, exe.Path)
			assert.Equal(t, tt.wantVersion, exe.Version)
		})
	}
}

func TestCheckInDir(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content    *string
		wantStatus SettingsStatus
		wantMsg    string
	}{
		"missing": {
			wantStatus: StatusMissing,
			wantMsg:    "using opencode defaults",
		},
		"valid with model": {
			content:    strPtr(`{"$schema":"https://opencode.ai/config.json","model":"anthropic/claude-sonnet"}`),
			wantStatus: StatusFound,
			wantMsg:    "model anthropic/claude-sonnet",
		},
		"empty file": {
			content:    strPtr(""),
			wantStatus: StatusFound,
		},
		"invalid json": {
			content:    strPtr("{"),
			wantStatus: StatusInvalid,
			wantMsg:    "parsing",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			if tt.content != nil {
				require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(*tt.content), 0o644))
			}

			res := CheckInDir(dir)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Contains(t, res.Message, tt.wantMsg)
		})
	}
}

func TestSettingsStatus_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Found", StatusFound.String())
	assert.Equal(t, "Missing", StatusMissing.String())
	assert.Equal(t, "Invalid", StatusInvalid.String())
	assert.Equal(t, "Unknown", SettingsStatus(99).String())
}

func strPtr(s string) *string { return &s }
