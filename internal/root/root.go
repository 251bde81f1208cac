// Package root resolves the project directory for an assistant session.
//
// Resolution walks a fixed priority chain and the first usable answer wins:
//
//  1. the first positional argument, if it names an existing directory
//  2. the git repository root of the working directory
//  3. the directory of the editor's current buffer
//  4. the first language-server workspace root
//  5. the process working directory
//
// Every probe failure falls through silently to the next step, so Resolve
// never fails and never returns an empty path. Nothing is cached.
package root

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/occtl/internal/git"
)

// Probes supplies the environment facts the resolver consults.
type Probes interface {
	// Args returns the host's positional arguments.
	Args() []string
	// DirExists reports whether path is an existing directory.
	DirExists(path string) bool
	// GitToplevel returns the repository root, or an error if the query failed.
	GitToplevel(ctx context.Context) (string, error)
	// BufferPath returns the current buffer's file path, or "".
	BufferPath() string
	// LSPRoots returns the workspace roots reported by attached language servers, in client order.
	LSPRoots() []string
	// Getwd returns the process working directory.
	Getwd() (string, error)
}

// Resolve returns the project root.
func Resolve(ctx context.Context, p Probes) string {
	if dir, ok := fromArgs(p); ok {
		return dir
	}
	if top, err := p.GitToplevel(ctx); err == nil && top != "" {
		return top
	}
	if dir, ok := fromBuffer(p); ok {
		return dir
	}
	for _, r := range p.LSPRoots() {
		if r != "" {
			return r
		}
	}
	if wd, err := p.Getwd(); err == nil && wd != "" {
		return wd
	}
	return "."
}

func fromArgs(p Probes) (string, bool) {
	args := p.Args()
	if len(args) == 0 {
		return "", false
	}
	arg := args[0]
	if strings.TrimSpace(arg) == "" || !p.DirExists(arg) {
		return "", false
	}
	// Abs cleans the path, which drops trailing separators but keeps a bare "/".
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", false
	}
	return abs, true
}

func fromBuffer(p Probes) (string, bool) {
	path := p.BufferPath()
	if path == "" {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	dir := filepath.Dir(abs)
	if !p.DirExists(dir) {
		return "", false
	}
	return dir, true
}

// System probes the real process environment. Zero-value fields mean "absent".
type System struct {
	// Positional holds the command's positional arguments.
	Positional []string
	// File is the editor's current buffer path.
	File string
	// LanguageServerRoots are the workspace roots of attached language servers.
	LanguageServerRoots []string
}

// Args returns the positional arguments.
func (s System) Args() []string { return s.Positional }

// DirExists stats path.
func (s System) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// GitToplevel runs the repository query in the working directory.
func (s System) GitToplevel(ctx context.Context) (string, error) {
	return git.Toplevel(ctx, "")
}

// BufferPath returns the configured buffer path.
func (s System) BufferPath() string { return s.File }

// LSPRoots returns the configured language-server roots.
func (s System) LSPRoots() []string { return s.LanguageServerRoots }

// Getwd returns os.Getwd.
func (s System) Getwd() (string, error) { return os.Getwd() }
