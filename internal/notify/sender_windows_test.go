//go:build windows

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeForPowerShell(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"plain":             {in: "opencode server not ready", want: "opencode server not ready"},
		"single quote":      {in: "can't reach port 4096", want: "can''t reach port 4096"},
		"dollar is literal": {in: "$HOME/project", want: "$HOME/project"},
		"backtick literal":  {in: "run `occtl doctor`", want: "run `occtl doctor`"},
		"typographic quote": {in: "don’t", want: "don’’t"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, escapeForPowerShell(tt.in))
		})
	}
}
