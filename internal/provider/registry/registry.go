// Package registry lists the built-in providers and selects one by name or
// by probing the environment.
package registry

import (
	"context"

	clierrors "github.com/ariel-frischer/occtl/internal/errors"
	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/provider"
	"github.com/ariel-frischer/occtl/internal/provider/embedded"
	"github.com/ariel-frischer/occtl/internal/provider/kitty"
	"github.com/ariel-frischer/occtl/internal/provider/terminal"
	"github.com/ariel-frischer/occtl/internal/provider/tmux"
	"github.com/ariel-frischer/occtl/internal/provider/wezterm"
)

// Auto selects the first provider whose environment is detected.
const Auto = "auto"

// Fallback is used by auto-selection when nothing is detected.
const Fallback = terminal.Name

// List returns the built-in providers in their fixed order. No provider is
// constructed; each Factory runs only when called.
func List() []provider.Descriptor {
	return []provider.Descriptor{
		{Name: embedded.Name, New: embedded.New},
		{Name: tmux.Name, New: tmux.New},
		{Name: kitty.Name, New: kitty.New},
		{Name: wezterm.Name, New: wezterm.New},
		{Name: terminal.Name, New: terminal.New},
	}
}

// Names returns the names of descriptors in order.
func Names(descriptors []provider.Descriptor) []string {
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the descriptor called name.
func Lookup(name string, descriptors []provider.Descriptor) (provider.Descriptor, bool) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return provider.Descriptor{}, false
}

// Select constructs the provider called name. With name "auto" (or empty) it
// constructs each descriptor in order and returns the first that implements
// provider.Detector and detects its environment, falling back to Fallback.
func Select(ctx context.Context, name string, opts provider.Options, descriptors []provider.Descriptor) (provider.Provider, error) {
	if name != "" && name != Auto {
		d, ok := Lookup(name, descriptors)
		if !ok {
			return nil, clierrors.UnknownProvider(name, Names(descriptors))
		}
		return construct(d, opts)
	}

	for _, d := range descriptors {
		p, err := d.New(opts)
		if err != nil {
			logger.Debug().Err(err).Str("provider", d.Name).Msg("skipping provider")
			continue
		}
		if det, ok := p.(provider.Detector); ok && det.Detect(ctx) {
			logger.Debug().Str("provider", d.Name).Msg("auto-selected provider")
			return p, nil
		}
	}

	d, ok := Lookup(Fallback, descriptors)
	if !ok {
		return nil, clierrors.NewConfigError("no provider detected and no fallback registered",
			"Set `provider` explicitly in your occtl config")
	}
	logger.Debug().Str("provider", d.Name).Msg("no provider detected, using fallback")
	return construct(d, opts)
}

func construct(d provider.Descriptor, opts provider.Options) (provider.Provider, error) {
	p, err := d.New(opts)
	if err != nil {
		return nil, clierrors.ProviderUnsupported(d.Name, err.Error())
	}
	return p, nil
}
