// Package terminal launches the assistant in a new terminal emulator window.
// It is the fallback when no multiplexer is detected and never detects
// itself. The emulator process id and start time are kept in the instance
// store, and a pid whose start time differs is never signalled.
package terminal

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ariel-frischer/occtl/internal/instance"
	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/provider"
	"github.com/google/shlex"
)

// Name is the registry name of this provider.
const Name = "terminal"

// SpawnFunc starts argv detached in dir and returns its pid.
type SpawnFunc func(argv []string, dir string) (int, error)

// Provider opens a terminal emulator window per instance.
type Provider struct {
	provider.Base

	spawn     SpawnFunc
	identify  instance.IdentifyFunc
	terminate func(pid int) error
}

var (
	_ provider.Toggler       = (*Provider)(nil)
	_ provider.Starter       = (*Provider)(nil)
	_ provider.Stopper       = (*Provider)(nil)
	_ provider.HealthChecker = (*Provider)(nil)
)

// New builds a terminal provider.
func New(opts provider.Options) (provider.Provider, error) {
	return &Provider{
		Base:      provider.NewBase(Name, opts),
		spawn:     spawnDetached,
		identify:  instance.Identify,
		terminate: instance.Terminate,
	}, nil
}

// Emulator returns the configured emulator command, falling back to $TERMINAL.
func (p *Provider) Emulator() string {
	if e := strings.TrimSpace(p.Opts().TerminalEmulator); e != "" {
		return e
	}
	return strings.TrimSpace(p.Getenv("TERMINAL"))
}

// Health implements provider.HealthChecker.
func (p *Provider) Health(context.Context) provider.Health {
	emulator := p.Emulator()
	if emulator == "" {
		return provider.Unhealthy("no terminal emulator configured",
			"Set terminal.emulator in the config file",
			"Or export TERMINAL")
	}
	argv, err := shlex.Split(emulator)
	if err != nil || len(argv) == 0 {
		return provider.Unhealthy(fmt.Sprintf("cannot parse terminal emulator %q", emulator))
	}
	if !p.InPath(argv[0]) {
		return provider.Unhealthy(fmt.Sprintf("terminal emulator %q not found in PATH", argv[0]))
	}
	return provider.Healthy("emulator: " + emulator)
}

// Start opens an emulator window unless the recorded one is still running.
func (p *Provider) Start(ctx context.Context) error {
	rec, found, err := p.current()
	if err != nil {
		return err
	}
	if found {
		logger.Debug().Int("pid", rec.PID).Msg("terminal instance already running")
		return nil
	}
	return p.launch()
}

// Stop terminates the recorded emulator process. Nothing to stop is not an error.
func (p *Provider) Stop(context.Context) error {
	rec, found, err := p.current()
	if err != nil || !found {
		return err
	}
	return p.kill(rec.PID)
}

// Toggle stops the instance when it runs and starts it otherwise.
func (p *Provider) Toggle(context.Context) error {
	rec, found, err := p.current()
	if err != nil {
		return err
	}
	if found {
		return p.kill(rec.PID)
	}
	return p.launch()
}

func (p *Provider) current() (instance.Record, bool, error) {
	return p.Record(func(rec instance.Record) bool { return instance.SameProcess(rec, p.identify) })
}

func (p *Provider) launch() error {
	emulator := p.Emulator()
	if emulator == "" {
		return fmt.Errorf("no terminal emulator configured: set terminal.emulator or $TERMINAL")
	}
	argv, err := shlex.Split(emulator)
	if err != nil {
		return fmt.Errorf("parsing terminal emulator %q: %w", emulator, err)
	}
	cmd, err := p.Argv()
	if err != nil {
		return err
	}
	argv = append(argv, "-e")
	argv = append(argv, cmd...)

	logger.Debug().Strs("argv", argv).Msg("launching terminal emulator")
	pid, err := p.spawn(argv, p.Opts().Root)
	if err != nil {
		return fmt.Errorf("launching %s: %w", argv[0], err)
	}
	// An emulator that hands the window to a server process and exits leaves
	// nothing to identify; such a window cannot be stopped later.
	id, err := p.identify(pid)
	if err != nil {
		logger.Debug().Err(err).Int("pid", pid).Msg("terminal emulator exited after launch")
		return nil
	}
	return p.Remember(instance.Record{PID: pid, Identity: id, StartedAt: time.Now()})
}

func (p *Provider) kill(pid int) error {
	if err := p.terminate(pid); err != nil {
		return fmt.Errorf("stopping terminal instance %d: %w", pid, err)
	}
	return p.Forget()
}

func spawnDetached(argv []string, dir string) (int, error) {
	// #nosec G204 -- argv comes from the user's own configuration
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.SysProcAttr = detachAttr()
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	// Reap in the background so the child never lingers as a zombie while occtl runs.
	go func() { _ = cmd.Wait() }()
	return pid, nil
}
