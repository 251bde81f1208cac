// Package opencode inspects the local opencode installation: the executable
// named by the configured command and the project's opencode.json.
package opencode

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ariel-frischer/occtl/internal/provider"
)

// VersionTimeout bounds the "--version" probe.
const VersionTimeout = 5 * time.Second

// Executable describes a resolved assistant binary.
type Executable struct {
	Path    string
	Version string
}

// Detector resolves the executable of a command line.
type Detector struct {
	Runner   provider.Runner
	LookPath func(string) (string, error)
}

// Detect resolves the program of cmdline on PATH and asks it for its version.
// A failing version probe leaves Version empty; only a missing binary is an error.
func (d Detector) Detect(ctx context.Context, cmdline string) (Executable, error) {
	argv, err := provider.Argv(cmdline)
	if err != nil {
		return Executable{}, err
	}
	lookPath := d.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(argv[0])
	if err != nil {
		return Executable{}, fmt.Errorf("%s: %w", argv[0], err)
	}

	runner := d.Runner
	if runner == nil {
		runner = provider.ExecRunner{}
	}
	ctx, cancel := context.WithTimeout(ctx, VersionTimeout)
	defer cancel()

	exe := Executable{Path: path}
	if out, err := runner.Output(ctx, path, "--version"); err == nil {
		exe.Version = firstLine(string(out))
	}
	return exe, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
