// Package git provides the repository queries occtl needs for project-root
// detection and diagnostics. It prefers the git CLI, matching what
// `git rev-parse --show-toplevel` reports, and falls back to go-git when the
// executable is not installed.
package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// ErrNotRepository is returned when the directory is not inside a repository.
var ErrNotRepository = errors.New("not a git repository")

// execCommand is replaced in tests to run a helper process instead of git.
var execCommand = exec.CommandContext

// lookPath is replaced in tests to simulate a missing git executable.
var lookPath = exec.LookPath

// Available reports whether the git executable is in PATH.
func Available() bool {
	_, err := lookPath("git")
	return err == nil
}

// Toplevel returns the repository root containing dir ("" means the current
// directory). A non-zero exit status is treated as "not a repository" even if
// git printed something. Only the first line of output is used.
func Toplevel(ctx context.Context, dir string) (string, error) {
	if !Available() {
		return openerToplevel(&DefaultOpener{}, dir)
	}

	cmd := execCommand(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", ErrNotRepository
	}

	line := firstLine(stdout.String())
	if line == "" {
		return "", ErrNotRepository
	}
	return line, nil
}

func firstLine(s string) string {
	scanner := bufio.NewScanner(strings.NewReader(s))
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r")
	}
	return ""
}
