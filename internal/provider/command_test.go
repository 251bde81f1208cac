package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLine(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cmd  string
		port int
		want string
	}{
		"no port":            {cmd: "opencode", want: "opencode"},
		"port appended":      {cmd: "opencode", port: 4096, want: "opencode --port 4096"},
		"existing flag kept": {cmd: "opencode --port 1234", port: 4096, want: "opencode --port 1234"},
		"equals form kept":   {cmd: "opencode --port=1234", port: 4096, want: "opencode --port=1234"},
		"negative ignored":   {cmd: "opencode", port: -1, want: "opencode"},
		"args preserved":     {cmd: "opencode --model x", port: 1, want: "opencode --model x --port 1"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CommandLine(tt.cmd, tt.port))
		})
	}
}

func TestArgv(t *testing.T) {
	t.Parallel()

	argv, err := Argv(`opencode --prompt "hello world" --port 4096`)
	require.NoError(t, err)
	assert.Equal(t, []string{"opencode", "--prompt", "hello world", "--port", "4096"}, argv)

	_, err = Argv("   ")
	assert.Error(t, err)
}

func TestPortFromArgs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		argv []string
		want int
	}{
		"separate value": {argv: []string{"opencode", "--port", "4096"}, want: 4096},
		"equals value":   {argv: []string{"opencode", "--port=5000"}, want: 5000},
		"missing value":  {argv: []string{"opencode", "--port"}, want: 0},
		"not a number":   {argv: []string{"opencode", "--port", "x"}, want: 0},
		"absent":         {argv: []string{"opencode"}, want: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PortFromArgs(tt.argv))
		})
	}
}
