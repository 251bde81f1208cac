// Package kitty presents the assistant in a kitty window launched over the
// remote-control socket named by $KITTY_LISTEN_ON.
package kitty

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/provider"
)

// Name is the registry name of this provider.
const Name = "kitty"

const (
	bin     = "kitty"
	userVar = "occtl"
)

// DefaultLocation is the launch location used when none is configured.
const DefaultLocation = "vsplit"

// Provider drives kitty through "kitty @".
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

// New builds a kitty provider.
func New(opts provider.Options) (provider.Provider, error) {
	if opts.KittyLocation == "" {
		opts.KittyLocation = DefaultLocation
	}
	return &Provider{Base: provider.NewBase(Name, opts)}, nil
}

// Detect reports whether kitty remote control is reachable.
func (p *Provider) Detect(context.Context) bool {
	return p.Getenv("KITTY_LISTEN_ON") != "" && p.InPath(bin)
}

// Health implements provider.HealthChecker.
func (p *Provider) Health(context.Context) provider.Health {
	if !p.InPath(bin) {
		return provider.Unhealthy("kitty executable not found", "Install kitty or choose another provider")
	}
	if p.Getenv("KITTY_LISTEN_ON") == "" {
		return provider.Unhealthy("KITTY_LISTEN_ON is not set",
			"Enable remote control: allow_remote_control yes",
			"Set a socket: listen_on unix:/tmp/kitty")
	}
	return provider.Healthy("launch location: " + p.Opts().KittyLocation)
}

// Start launches a window running the assistant unless one is already tagged.
func (p *Provider) Start(ctx context.Context) error {
	id, err := p.find(ctx)
	if err != nil {
		return err
	}
	if id != 0 {
		logger.Debug().Int("window", id).Msg("kitty window already running")
		return nil
	}
	return p.launch(ctx)
}

// Stop closes the tagged window. Nothing to stop is not an error.
func (p *Provider) Stop(ctx context.Context) error {
	id, err := p.find(ctx)
	if err != nil || id == 0 {
		return err
	}
	return p.close(ctx, id)
}

// Toggle closes the window when it runs and launches it otherwise.
func (p *Provider) Toggle(ctx context.Context) error {
	id, err := p.find(ctx)
	if err != nil {
		return err
	}
	if id != 0 {
		return p.close(ctx, id)
	}
	return p.launch(ctx)
}

func (p *Provider) launch(ctx context.Context) error {
	argv, err := p.Argv()
	if err != nil {
		return err
	}
	args := []string{
		"@", "launch",
		"--keep-focus",
		"--type=window",
		"--location=" + p.Opts().KittyLocation,
		"--var", userVar + "=" + p.Tag(),
	}
	if root := p.Opts().Root; root != "" {
		args = append(args, "--cwd="+root)
	}
	args = append(args, argv...)

	logger.Debug().Str("cmd", p.Cmd()).Msg("launching kitty window")
	if _, err := p.Run(ctx, bin, args...); err != nil {
		return fmt.Errorf("launching kitty window: %w", err)
	}
	return nil
}

func (p *Provider) close(ctx context.Context, id int) error {
	if _, err := p.Run(ctx, bin, "@", "close-window", "--match", "id:"+strconv.Itoa(id)); err != nil {
		return fmt.Errorf("closing kitty window %d: %w", id, err)
	}
	return nil
}

type osWindow struct {
	Tabs []struct {
		Windows []struct {
			ID       int               `json:"id"`
			UserVars map[string]string `json:"user_vars"`
		} `json:"windows"`
	} `json:"tabs"`
}

// find returns the id of the window whose user variable carries this
// project's tag, or 0.
func (p *Provider) find(ctx context.Context) (int, error) {
	out, err := p.Run(ctx, bin, "@", "ls")
	if err != nil {
		return 0, fmt.Errorf("listing kitty windows: %w", err)
	}
	var tree []osWindow
	if err := json.Unmarshal(out, &tree); err != nil {
		return 0, fmt.Errorf("decoding kitty @ ls: %w", err)
	}
	tag := p.Tag()
	for _, ow := range tree {
		for _, tab := range ow.Tabs {
			for _, w := range tab.Windows {
				if w.UserVars[userVar] == tag {
					return w.ID, nil
				}
			}
		}
	}
	return 0, nil
}
