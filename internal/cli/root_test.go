package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Commands(t *testing.T) {
	t.Parallel()

	want := map[string]string{
		"toggle":    GroupAssistant,
		"start":     GroupAssistant,
		"stop":      GroupAssistant,
		"events":    GroupAssistant,
		"config":    GroupConfiguration,
		"doctor":    GroupConfiguration,
		"providers": GroupConfiguration,
		"root":      GroupUtility,
		"version":   GroupUtility,
	}

	got := make(map[string]string)
	for _, cmd := range rootCmd.Commands() {
		got[cmd.Name()] = cmd.GroupID
	}
	for name, group := range want {
		g, ok := got[name]
		require.True(t, ok, "missing command %q", name)
		assert.Equal(t, group, g, "group of %q", name)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	t.Parallel()

	flags := rootCmd.PersistentFlags()
	for _, name := range []string{"config", "debug", "file", "lsp-root"} {
		assert.NotNil(t, flags.Lookup(name), "missing --%s", name)
	}
	assert.Equal(t, "c", flags.Lookup("config").Shorthand)
	assert.Equal(t, "d", flags.Lookup("debug").Shorthand)
	assert.Equal(t, "stringArray", flags.Lookup("lsp-root").Value.Type())
}

func TestDoctorAlias(t *testing.T) {
	t.Parallel()

	cmd, _, err := rootCmd.Find([]string{"doc"})
	require.NoError(t, err)
	assert.Equal(t, "doctor", cmd.Name())
}
