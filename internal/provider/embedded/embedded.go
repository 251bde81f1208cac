// Package embedded runs the assistant inside the caller's own terminal
// through a pseudo-terminal. Start blocks until the assistant exits; a
// second occtl invocation can stop it through the recorded pid. It is only
// detected outside terminal multiplexers, which have their own providers.
package embedded

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ariel-frischer/occtl/internal/instance"
	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/provider"
	"golang.org/x/term"
)

// Name is the registry name of this provider.
const Name = "embedded"

// RunFunc runs argv in dir attached to the caller's terminal, calls started
// with the child pid once it runs, and returns when the child exits.
type RunFunc func(ctx context.Context, argv []string, dir string, started func(pid int)) error

// Provider relays a pty between the assistant and the caller's terminal.
type Provider struct {
	provider.Base

	run       RunFunc
	isTTY     func() bool
	identify  instance.IdentifyFunc
	terminate func(pid int) error
}

var (
	_ provider.Toggler       = (*Provider)(nil)
	_ provider.Starter       = (*Provider)(nil)
	_ provider.Stopper       = (*Provider)(nil)
	_ provider.HealthChecker = (*Provider)(nil)
	_ provider.Detector      = (*Provider)(nil)
	_ provider.Foreground    = (*Provider)(nil)
)

// multiplexerEnv marks a caller running inside tmux, kitty or WezTerm.
var multiplexerEnv = []string{"TMUX", "KITTY_LISTEN_ON", "WEZTERM_PANE"}

// New builds an embedded provider.
func New(opts provider.Options) (provider.Provider, error) {
	isTTY := opts.IsTerminal
	if isTTY == nil {
		isTTY = stdinIsTerminal
	}
	return &Provider{
		Base:      provider.NewBase(Name, opts),
		run:       runPTY,
		isTTY:     isTTY,
		identify:  instance.Identify,
		terminate: instance.Terminate,
	}, nil
}

// Detect reports whether stdin is an interactive terminal outside any
// multiplexer that could show the assistant beside the caller instead.
func (p *Provider) Detect(context.Context) bool {
	if !ptySupported || !p.isTTY() {
		return false
	}
	for _, key := range multiplexerEnv {
		if p.Getenv(key) != "" {
			return false
		}
	}
	return true
}

// Foreground implements provider.Foreground. Start and Toggle return only
// after the assistant has exited.
func (p *Provider) Foreground() bool { return true }

// Health implements provider.HealthChecker.
func (p *Provider) Health(context.Context) provider.Health {
	if !ptySupported {
		return provider.Unhealthy("pseudo-terminals are not supported on this platform")
	}
	if !p.isTTY() {
		return provider.Unhealthy("stdin is not a terminal", "Run occtl from an interactive shell")
	}
	return provider.Healthy()
}

// Start runs the assistant in the foreground unless this project's embedded
// instance is already running elsewhere.
func (p *Provider) Start(ctx context.Context) error {
	rec, found, err := p.current()
	if err != nil {
		return err
	}
	if found {
		logger.Debug().Int("pid", rec.PID).Msg("embedded instance already running")
		return nil
	}
	return p.attach(ctx)
}

// Stop terminates the recorded instance. Nothing to stop is not an error.
func (p *Provider) Stop(context.Context) error {
	rec, found, err := p.current()
	if err != nil || !found {
		return err
	}
	if err := p.terminate(rec.PID); err != nil {
		return fmt.Errorf("stopping embedded instance %d: %w", rec.PID, err)
	}
	return p.Forget()
}

// Toggle starts the instance when it is not running, otherwise stops it.
func (p *Provider) Toggle(ctx context.Context) error {
	_, found, err := p.current()
	if err != nil {
		return err
	}
	if found {
		return p.Stop(ctx)
	}
	return p.attach(ctx)
}

func (p *Provider) current() (instance.Record, bool, error) {
	return p.Record(func(rec instance.Record) bool { return instance.SameProcess(rec, p.identify) })
}

func (p *Provider) attach(ctx context.Context) error {
	argv, err := p.Argv()
	if err != nil {
		return err
	}
	var rememberErr error
	started := func(pid int) {
		id, err := p.identify(pid)
		if err != nil {
			logger.Debug().Err(err).Int("pid", pid).Msg("embedded instance exited before it was recorded")
			return
		}
		rememberErr = p.Remember(instance.Record{PID: pid, Identity: id, StartedAt: time.Now()})
	}

	logger.Debug().Str("cmd", p.Cmd()).Msg("attaching embedded instance")
	runErr := p.run(ctx, argv, p.Opts().Root, started)
	if err := p.Forget(); err != nil {
		logger.Debug().Err(err).Msg("could not clear embedded instance record")
	}
	if runErr != nil {
		return fmt.Errorf("running %s: %w", argv[0], runErr)
	}
	return rememberErr
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
