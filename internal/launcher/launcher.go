// Package launcher routes toggle, start and stop to the configured provider
// and, after a successful toggle or start, subscribes to the assistant's
// event stream in the background.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	clierrors "github.com/ariel-frischer/occtl/internal/errors"
	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/provider"
	"github.com/ariel-frischer/occtl/internal/root"
)

// ErrUnavailable is wrapped by the error returned when no provider is
// configured or the provider lacks the requested capability.
var ErrUnavailable = errors.New("provider capability unavailable")

// Settings is the mutable configuration consulted on every call.
type Settings struct {
	// Provider is the active provider; nil means none is configured.
	Provider provider.Provider
	// EventsEnabled turns on event subscription after toggle and start.
	EventsEnabled bool
}

// PortSource resolves the assistant server port.
type PortSource interface {
	GetPort(ctx context.Context, force bool) (int, error)
}

// Subscriber consumes the event stream on a port.
type Subscriber interface {
	Subscribe(ctx context.Context, port int) error
}

// Notifier receives warnings from background work.
type Notifier interface {
	Warn(msg string)
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithPortSource sets the port source used by the event trigger.
func WithPortSource(p PortSource) Option { return func(l *Launcher) { l.ports = p } }

// WithSubscriber sets the event stream subscriber.
func WithSubscriber(s Subscriber) Option { return func(l *Launcher) { l.subscriber = s } }

// WithNotifier sets the sink for background warnings.
func WithNotifier(n Notifier) Option { return func(l *Launcher) { l.notifier = n } }

// WithProbes sets the environment probes used for root resolution.
func WithProbes(p root.Probes) Option { return func(l *Launcher) { l.probes = p } }

// WithContext sets the context background subscriptions run under.
func WithContext(ctx context.Context) Option { return func(l *Launcher) { l.baseCtx = ctx } }

// Launcher dispatches to the provider held in its Settings.
type Launcher struct {
	settings   *Settings
	ports      PortSource
	subscriber Subscriber
	notifier   Notifier
	probes     root.Probes
	baseCtx    context.Context

	wg sync.WaitGroup
}

// New returns a Launcher reading settings on every call.
func New(settings *Settings, opts ...Option) *Launcher {
	l := &Launcher{
		settings: settings,
		notifier: logNotifier{},
		probes:   root.System{},
		baseCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Toggle shows or hides the assistant through the provider.
func (l *Launcher) Toggle(ctx context.Context) error {
	t, ok := l.active().(provider.Toggler)
	if !ok {
		return unavailable(provider.CapToggle)
	}
	if err := t.Toggle(ctx); err != nil {
		return err
	}
	l.triggerEvents(t)
	return nil
}

// Start starts the assistant through the provider.
func (l *Launcher) Start(ctx context.Context) error {
	s, ok := l.active().(provider.Starter)
	if !ok {
		return unavailable(provider.CapStart)
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	l.triggerEvents(s)
	return nil
}

// Stop stops the assistant through the provider. It never subscribes to events.
func (l *Launcher) Stop(ctx context.Context) error {
	s, ok := l.active().(provider.Stopper)
	if !ok {
		return unavailable(provider.CapStop)
	}
	return s.Stop(ctx)
}

// ProjectRoot resolves the project root.
func (l *Launcher) ProjectRoot(ctx context.Context) string {
	return root.Resolve(ctx, l.probes)
}

// Wait blocks until every background subscription has finished.
func (l *Launcher) Wait() {
	l.wg.Wait()
}

func (l *Launcher) active() provider.Provider {
	if l.settings == nil {
		return nil
	}
	return l.settings.Provider
}

// triggerEvents starts one background subscription when events are enabled.
// Concurrent triggers are neither deduplicated nor cancelled. A foreground
// provider has already run the assistant to completion, so there is no
// server left to subscribe to.
func (l *Launcher) triggerEvents(p any) {
	if l.settings == nil || !l.settings.EventsEnabled {
		return
	}
	if f, ok := p.(provider.Foreground); ok && f.Foreground() {
		logger.Debug().Msg("foreground provider returned; skipping event subscription")
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.subscribe(l.baseCtx); err != nil {
			l.notifier.Warn(err.Error())
		}
	}()
}

func (l *Launcher) subscribe(ctx context.Context) error {
	if l.ports == nil || l.subscriber == nil {
		return fmt.Errorf("event subscription is not configured")
	}
	port, err := l.ports.GetPort(ctx, false)
	if err != nil {
		return fmt.Errorf("resolving opencode server port: %w", err)
	}
	logger.Debug().Int("port", port).Msg("subscribing to opencode events")
	if err := l.subscriber.Subscribe(ctx, port); err != nil {
		return fmt.Errorf("subscribing to opencode events on port %d: %w", port, err)
	}
	return nil
}

func unavailable(c provider.Capability) error {
	return &clierrors.CLIError{
		Category: clierrors.Configuration,
		Message:  fmt.Sprintf("`provider.%s` unavailable — run `occtl doctor` for details", c),
		Err:      ErrUnavailable,
	}
}

type logNotifier struct{}

func (logNotifier) Warn(msg string) { logger.Warn().Msg(msg) }
