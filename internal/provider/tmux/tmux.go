// Package tmux presents the assistant in a tmux pane split off the caller's
// window. The pane is tagged with the "@occtl" user option so that later
// invocations find it again; panes occtl did not create are never touched.
package tmux

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/provider"
	"github.com/google/shlex"
)

// Name is the registry name of this provider.
const Name = "tmux"

const (
	bin       = "tmux"
	tagOption = "@occtl"
)

// DefaultOptions are the split-window flags used when none are configured.
const DefaultOptions = "-h -l 35%"

// Provider drives tmux through its command-line client.
type Provider struct {
	provider.Base
}

var (
	_ provider.Toggler       = (*Provider)(nil)
	_ provider.Starter       = (*Provider)(nil)
	_ provider.Stopper       = (*Provider)(nil)
	_ provider.HealthChecker = (*Provider)(nil)
	_ provider.Detector      = (*Provider)(nil)
)

// New builds a tmux provider.
func New(opts provider.Options) (provider.Provider, error) {
	if strings.TrimSpace(opts.TmuxOptions) == "" {
		opts.TmuxOptions = DefaultOptions
	}
	if _, err := shlex.Split(opts.TmuxOptions); err != nil {
		return nil, fmt.Errorf("parsing tmux.options %q: %w", opts.TmuxOptions, err)
	}
	return &Provider{Base: provider.NewBase(Name, opts)}, nil
}

// Detect reports whether occtl runs inside a tmux session.
func (p *Provider) Detect(context.Context) bool {
	return p.Getenv("TMUX") != "" && p.InPath(bin)
}

// Health implements provider.HealthChecker.
func (p *Provider) Health(context.Context) provider.Health {
	if !p.InPath(bin) {
		return provider.Unhealthy("tmux executable not found", "Install tmux or choose another provider")
	}
	if p.Getenv("TMUX") == "" {
		return provider.Unhealthy("not running inside a tmux session", "Run occtl from a tmux pane")
	}
	return provider.Healthy("split options: " + p.Opts().TmuxOptions)
}

// Start splits a new pane running the assistant unless one is already tagged.
func (p *Provider) Start(ctx context.Context) error {
	pane, err := p.find(ctx)
	if err != nil {
		return err
	}
	if pane.id != "" {
		logger.Debug().Str("pane", pane.id).Msg("tmux pane already running")
		return nil
	}
	_, err = p.split(ctx)
	return err
}

// Stop kills the tagged pane. Nothing to stop is not an error.
func (p *Provider) Stop(ctx context.Context) error {
	pane, err := p.find(ctx)
	if err != nil || pane.id == "" {
		return err
	}
	_, err = p.Run(ctx, bin, "kill-pane", "-t", pane.id)
	return err
}

// Toggle hides the pane into a background window when it is visible in the
// current window, brings it back when it is hidden, and starts it otherwise.
func (p *Provider) Toggle(ctx context.Context) error {
	pane, err := p.find(ctx)
	if err != nil {
		return err
	}
	if pane.id == "" {
		_, err = p.split(ctx)
		return err
	}

	current, err := p.currentWindow(ctx)
	if err != nil {
		return err
	}
	if pane.window == current {
		_, err = p.Run(ctx, bin, "break-pane", "-d", "-s", pane.id)
		return err
	}

	args := append([]string{"join-pane", "-d"}, p.splitFlags()...)
	args = append(args, "-s", pane.id)
	_, err = p.Run(ctx, bin, args...)
	return err
}

type pane struct {
	id     string
	window string
}

// find returns the pane tagged for this project, or a zero pane.
func (p *Provider) find(ctx context.Context) (pane, error) {
	format := "#{pane_id}\t#{window_id}\t#{" + tagOption + "}"
	out, err := p.Run(ctx, bin, "list-panes", "-a", "-F", format)
	if err != nil {
		return pane{}, fmt.Errorf("listing tmux panes: %w", err)
	}
	tag := p.Tag()
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) == 3 && fields[2] == tag {
			return pane{id: fields[0], window: fields[1]}, nil
		}
	}
	return pane{}, nil
}

func (p *Provider) currentWindow(ctx context.Context) (string, error) {
	out, err := p.Run(ctx, bin, "display-message", "-p", "#{window_id}")
	if err != nil {
		return "", fmt.Errorf("reading current tmux window: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (p *Provider) split(ctx context.Context) (string, error) {
	args := append([]string{"split-window", "-d", "-P", "-F", "#{pane_id}"}, p.splitFlags()...)
	if root := p.Opts().Root; root != "" {
		args = append(args, "-c", root)
	}
	args = append(args, p.Cmd())

	logger.Debug().Str("cmd", p.Cmd()).Msg("starting tmux pane")
	out, err := p.Run(ctx, bin, args...)
	if err != nil {
		return "", fmt.Errorf("splitting tmux window: %w", err)
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		return "", fmt.Errorf("tmux split-window returned no pane id")
	}
	if _, err := p.Run(ctx, bin, "set-option", "-p", "-t", id, tagOption, p.Tag()); err != nil {
		return id, fmt.Errorf("tagging tmux pane %s: %w", id, err)
	}
	return id, nil
}

func (p *Provider) splitFlags() []string {
	flags, _ := shlex.Split(p.Opts().TmuxOptions)
	return flags
}
