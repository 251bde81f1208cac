// Package wezterm presents the assistant in a WezTerm split pane. WezTerm
// panes carry no user data that the CLI can query, so the pane id is kept in
// the instance store together with the mux socket it belongs to. Pane ids
// restart with the mux, so a record is only used while the socket is the
// same and "wezterm cli list" shows the pane in the project root.
package wezterm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ariel-frischer/occtl/internal/instance"
	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/provider"
)

// Name is the registry name of this provider.
const Name = "wezterm"

const bin = "wezterm"

// Defaults for the split geometry.
const (
	DefaultDirection = "right"
	DefaultPercent   = 35
)

// Provider drives WezTerm through "wezterm cli".
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

// New builds a wezterm provider.
func New(opts provider.Options) (provider.Provider, error) {
	if opts.WeztermDirection == "" {
		opts.WeztermDirection = DefaultDirection
	}
	switch opts.WeztermDirection {
	case "right", "left", "top", "bottom":
	default:
		return nil, fmt.Errorf("invalid wezterm.direction %q", opts.WeztermDirection)
	}
	if opts.WeztermPercent <= 0 || opts.WeztermPercent >= 100 {
		opts.WeztermPercent = DefaultPercent
	}
	return &Provider{Base: provider.NewBase(Name, opts)}, nil
}

// Detect reports whether occtl runs inside a WezTerm pane.
func (p *Provider) Detect(context.Context) bool {
	return p.Getenv("WEZTERM_PANE") != "" && p.InPath(bin)
}

// Health implements provider.HealthChecker.
func (p *Provider) Health(context.Context) provider.Health {
	if !p.InPath(bin) {
		return provider.Unhealthy("wezterm executable not found", "Install WezTerm or choose another provider")
	}
	if p.Getenv("WEZTERM_PANE") == "" {
		return provider.Unhealthy("not running inside a WezTerm pane", "Run occtl from WezTerm")
	}
	if p.Opts().Store == nil {
		return provider.Unhealthy("no instance store configured")
	}
	o := p.Opts()
	return provider.Healthy(fmt.Sprintf("split: %s %d%%", o.WeztermDirection, o.WeztermPercent))
}

// Start splits a pane running the assistant unless the recorded pane is alive.
func (p *Provider) Start(ctx context.Context) error {
	rec, found, err := p.current(ctx)
	if err != nil {
		return err
	}
	if found {
		logger.Debug().Str("pane", rec.ID).Msg("wezterm pane already running")
		return nil
	}
	return p.split(ctx)
}

// Stop kills the recorded pane. Nothing to stop is not an error.
func (p *Provider) Stop(ctx context.Context) error {
	rec, found, err := p.current(ctx)
	if err != nil || !found {
		return err
	}
	return p.kill(ctx, rec.ID)
}

// Toggle kills the pane when it runs and splits a new one otherwise.
func (p *Provider) Toggle(ctx context.Context) error {
	rec, found, err := p.current(ctx)
	if err != nil {
		return err
	}
	if found {
		return p.kill(ctx, rec.ID)
	}
	return p.split(ctx)
}

func (p *Provider) split(ctx context.Context) error {
	argv, err := p.Argv()
	if err != nil {
		return err
	}
	o := p.Opts()
	caller := p.Getenv("WEZTERM_PANE")

	args := []string{"cli", "split-pane", "--" + o.WeztermDirection, "--percent", strconv.Itoa(o.WeztermPercent)}
	if caller != "" {
		args = append(args, "--pane-id", caller)
	}
	if o.Root != "" {
		args = append(args, "--cwd", o.Root)
	}
	args = append(args, "--")
	args = append(args, argv...)

	logger.Debug().Str("cmd", p.Cmd()).Msg("splitting wezterm pane")
	out, err := p.Run(ctx, bin, args...)
	if err != nil {
		return fmt.Errorf("splitting wezterm pane: %w", err)
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		return fmt.Errorf("wezterm cli split-pane returned no pane id")
	}

	if caller != "" {
		if _, err := p.Run(ctx, bin, "cli", "activate-pane", "--pane-id", caller); err != nil {
			logger.Debug().Err(err).Msg("could not re-activate caller pane")
		}
	}
	return p.Remember(instance.Record{ID: id, Socket: p.socket(), StartedAt: time.Now()})
}

func (p *Provider) kill(ctx context.Context, id string) error {
	if _, err := p.Run(ctx, bin, "cli", "kill-pane", "--pane-id", id); err != nil {
		return fmt.Errorf("killing wezterm pane %s: %w", id, err)
	}
	return p.Forget()
}

func (p *Provider) socket() string {
	return p.Getenv("WEZTERM_UNIX_SOCKET")
}

// current returns the recorded pane when it still exists on the same mux.
func (p *Provider) current(ctx context.Context) (instance.Record, bool, error) {
	var listErr error
	rec, found, err := p.Record(func(rec instance.Record) bool {
		if rec.Socket != p.socket() {
			return false
		}
		panes, err := p.panes(ctx)
		if err != nil {
			listErr = err
			return true
		}
		cwd, ok := panes[rec.ID]
		return ok && p.inRoot(cwd)
	})
	if listErr != nil {
		return instance.Record{}, false, listErr
	}
	return rec, found, err
}

// panes maps each pane id to its working directory URL.
func (p *Provider) panes(ctx context.Context) (map[string]string, error) {
	out, err := p.Run(ctx, bin, "cli", "list", "--format", "json")
	if err != nil {
		return nil, fmt.Errorf("listing wezterm panes: %w", err)
	}
	var entries []struct {
		PaneID int    `json:"pane_id"`
		Cwd    string `json:"cwd"`
	}
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, fmt.Errorf("decoding wezterm cli list: %w", err)
	}
	ids := make(map[string]string, len(entries))
	for _, e := range entries {
		ids[strconv.Itoa(e.PaneID)] = e.Cwd
	}
	return ids, nil
}

// inRoot reports whether a pane cwd such as "file://host/proj" is the project root.
func (p *Provider) inRoot(cwd string) bool {
	root := p.Opts().Root
	if root == "" {
		return true
	}
	u, err := url.Parse(cwd)
	if err != nil || u.Path == "" {
		return false
	}
	path := u.Path
	// file:///C:/proj on Windows
	if len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.Clean(filepath.FromSlash(path)) == filepath.Clean(root)
}
