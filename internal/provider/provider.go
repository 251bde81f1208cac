// Package provider defines the terminal back ends that present the assistant.
//
// A Provider is a named capability bundle. Beyond Name and Cmd every
// capability is optional and expressed as its own interface (Toggler,
// Starter, Stopper, HealthChecker, Detector), so "capability absent" is a
// type assertion that fails rather than a method that silently does nothing.
// Use Supports to query a capability explicitly.
package provider

import "context"

// Provider is the minimal surface every back end exposes.
type Provider interface {
	// Name returns the unique identifier (e.g., "tmux").
	Name() string
	// Cmd returns the full command line used to launch the assistant,
	// including "--port <port>" when a port is configured.
	Cmd() string
}

// Toggler shows or hides the assistant, starting it if needed.
type Toggler interface {
	Toggle(ctx context.Context) error
}

// Starter starts the assistant if this provider has not already started it.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper stops an assistant instance this provider started.
type Stopper interface {
	Stop(ctx context.Context) error
}

// HealthChecker reports whether the provider can work in this environment.
type HealthChecker interface {
	Health(ctx context.Context) Health
}

// Detector reports whether the surrounding environment belongs to this
// provider (e.g., running inside tmux). Used by auto-selection.
type Detector interface {
	Detect(ctx context.Context) bool
}

// Foreground marks a provider whose Start and Toggle hold the caller's
// terminal until the assistant exits. Nothing runs after such a start while
// the assistant is alive, so the launcher does not subscribe to its events.
type Foreground interface {
	Foreground() bool
}

// Capability names one optional provider operation.
type Capability string

const (
	CapNew    Capability = "new"
	CapToggle Capability = "toggle"
	CapStart  Capability = "start"
	CapStop   Capability = "stop"
	CapHealth Capability = "health"
)

// Capabilities lists every capability in display order.
var Capabilities = []Capability{CapNew, CapToggle, CapStart, CapStop, CapHealth}

// Supports reports whether p implements capability c. A nil provider supports
// nothing. CapNew belongs to descriptors, not instances, and is always false here.
func Supports(p Provider, c Capability) bool {
	if p == nil {
		return false
	}
	switch c {
	case CapToggle:
		_, ok := p.(Toggler)
		return ok
	case CapStart:
		_, ok := p.(Starter)
		return ok
	case CapStop:
		_, ok := p.(Stopper)
		return ok
	case CapHealth:
		_, ok := p.(HealthChecker)
		return ok
	default:
		return false
	}
}

// Health is the result of a provider diagnostic: either OK, or an error
// string, plus advice lines for the user.
type Health struct {
	OK     bool
	Err    string
	Advice []string
}

// Healthy returns an OK result with optional advice.
func Healthy(advice ...string) Health {
	return Health{OK: true, Advice: advice}
}

// Unhealthy returns a failed result.
func Unhealthy(err string, advice ...string) Health {
	return Health{Err: err, Advice: advice}
}

// Factory constructs a provider. It is the "new" capability of a Descriptor.
type Factory func(Options) (Provider, error)

// Descriptor names a provider without constructing it.
type Descriptor struct {
	Name string
	New  Factory
}
