package util

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/occtl/internal/build"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	// Cannot run in parallel - Register modifies global command state
	rootCmd := &cobra.Command{Use: "test"}
	require.NotPanics(t, func() {
		Register(rootCmd)
	})

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["root"])
	assert.True(t, names["version"])
}

func TestTruncateCommit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"full hash": {input: "0123456789abcdef", want: "0123456"},
		"short":     {input: "abc", want: "abc"},
		"unknown":   {input: "unknown", want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, truncateCommit(tt.input))
		})
	}
}

// newRoot builds a throwaway root carrying the global flags the commands read.
func newRoot(sub *cobra.Command) (*cobra.Command, *bytes.Buffer) {
	rootCmd := &cobra.Command{Use: "occtl"}
	rootCmd.PersistentFlags().Bool("debug", false, "")
	rootCmd.PersistentFlags().String("file", "", "")
	rootCmd.PersistentFlags().StringArray("lsp-root", nil, "")
	rootCmd.AddCommand(sub)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	return rootCmd, &buf
}

func TestRootCommand_PrintsDirectoryArgument(t *testing.T) {
	dir := t.TempDir()
	rootCmd, buf := newRoot(rootDirCmd)
	rootCmd.SetArgs([]string{"root", dir})

	require.NoError(t, rootCmd.Execute())
	want, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(buf.String()))
}

func TestVersionCommand_Plain(t *testing.T) {
	rootCmd, buf := newRoot(versionCmd)
	rootCmd.SetArgs([]string{"version", "--plain"})
	t.Cleanup(func() { versionPlain = false })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "occtl version "+build.Version)
}
