// Package providertest provides a scripted provider.Runner and environment
// stubs for provider tests.
package providertest

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

type rule struct {
	prefix string
	out    string
	err    error
}

// Runner records every command and answers from scripted rules. Commands that
// match no rule succeed with empty output.
type Runner struct {
	mu    sync.Mutex
	rules []rule
	calls []string
}

// On scripts the response for commands whose joined form starts with prefix
// (e.g. "tmux list-panes"). Later rules win over earlier ones.
func (r *Runner) On(prefix, out string, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{prefix: prefix, out: out, err: err})
	return r
}

// Output implements provider.Runner.
func (r *Runner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, line)
	for i := len(r.rules) - 1; i >= 0; i-- {
		if strings.HasPrefix(line, r.rules[i].prefix) {
			return []byte(r.rules[i].out), r.rules[i].err
		}
	}
	return nil, nil
}

// Calls returns each command run so far, joined with spaces.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Called reports whether any command started with prefix.
func (r *Runner) Called(prefix string) bool {
	for _, c := range r.Calls() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// Env returns a Getenv backed by vars.
func Env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

// LookPath returns a LookPath that finds only the named binaries.
func LookPath(found ...string) func(string) (string, error) {
	return func(bin string) (string, error) {
		for _, f := range found {
			if f == bin {
				return "/usr/bin/" + bin, nil
			}
		}
		return "", fmt.Errorf("%s: %w", bin, exec.ErrNotFound)
	}
}
