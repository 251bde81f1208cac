package provider

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes external control commands (tmux, kitty @, wezterm cli).
// Providers take a Runner so tests can script responses without exec.
type Runner interface {
	// Output runs name with args and returns stdout. A non-zero exit is an
	// error that includes trimmed stderr.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output implements Runner.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	// #nosec G204 -- name is a fixed multiplexer binary, args are built by providers
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s %s: %w: %s", name, firstArg(args), err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("%s %s: %w", name, firstArg(args), err)
	}
	return stdout.Bytes(), nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
