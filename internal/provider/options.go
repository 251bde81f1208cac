package provider

import (
	"context"
	"os"
	"os/exec"

	"github.com/ariel-frischer/occtl/internal/instance"
)

// TagPrefix starts every instance tag.
const TagPrefix = "occtl:"

// Options carries everything a factory needs to build a provider.
type Options struct {
	// Cmd is the assistant command without the port flag.
	Cmd string
	// Port is the configured server port, 0 when unset.
	Port int
	// Root is the project root. It scopes the instance tag.
	Root string

	TmuxOptions      string
	KittyLocation    string
	WeztermDirection string
	WeztermPercent   int
	TerminalEmulator string

	// Store records instances for providers that cannot tag them in place.
	Store *instance.Store

	Runner   Runner
	Getenv   func(string) string
	LookPath func(string) (string, error)

	// IsTerminal reports whether stdin is an interactive terminal.
	IsTerminal func() bool
}

// Base implements Name and Cmd and holds the shared plumbing. Providers embed it.
type Base struct {
	name string
	opts Options
}

// NewBase fills unset dependencies with their OS-backed defaults.
func NewBase(name string, opts Options) Base {
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	return Base{name: name, opts: opts}
}

// Name implements Provider.
func (b Base) Name() string { return b.name }

// Cmd implements Provider.
func (b Base) Cmd() string { return CommandLine(b.opts.Cmd, b.opts.Port) }

// Argv returns Cmd split into arguments.
func (b Base) Argv() ([]string, error) { return Argv(b.Cmd()) }

// Tag identifies the instance this provider owns for its project root.
func (b Base) Tag() string { return TagPrefix + b.opts.Root }

// Opts returns the options with defaults applied.
func (b Base) Opts() Options { return b.opts }

// Run executes a control command through the configured runner.
func (b Base) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return b.opts.Runner.Output(ctx, name, args...)
}

// Getenv reads the environment through the configured lookup.
func (b Base) Getenv(key string) string { return b.opts.Getenv(key) }

// InPath reports whether bin resolves on PATH.
func (b Base) InPath(bin string) bool {
	_, err := b.opts.LookPath(bin)
	return err == nil
}

// Record returns the stored instance for this provider's tag, dropping it
// when it belongs to another provider or alive reports it gone.
func (b Base) Record(alive func(instance.Record) bool) (instance.Record, bool, error) {
	if b.opts.Store == nil {
		return instance.Record{}, false, nil
	}
	rec, found, err := b.opts.Store.Get(b.Tag())
	if err != nil || !found {
		return instance.Record{}, false, err
	}
	if rec.Provider != b.name || !alive(rec) {
		if err := b.opts.Store.Delete(b.Tag()); err != nil {
			return instance.Record{}, false, err
		}
		return instance.Record{}, false, nil
	}
	return rec, true, nil
}

// Remember stores rec under this provider's tag.
func (b Base) Remember(rec instance.Record) error {
	if b.opts.Store == nil {
		return nil
	}
	rec.Provider = b.name
	rec.Root = b.opts.Root
	return b.opts.Store.Put(b.Tag(), rec)
}

// Forget drops this provider's record.
func (b Base) Forget() error {
	if b.opts.Store == nil {
		return nil
	}
	return b.opts.Store.Delete(b.Tag())
}
