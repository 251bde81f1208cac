// Package server resolves the port of the assistant's HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/provider"
)

// ErrNoServer is returned when no port is configured and no running server
// could be discovered.
var ErrNoServer = errors.New("no opencode server found")

// Defaults for readiness polling.
const (
	DefaultReadyTimeout = 10 * time.Second
	DefaultPollInterval = 200 * time.Millisecond
)

// Config configures a Manager.
type Config struct {
	// Port is the configured server port; 0 means discover it.
	Port int
	// Cmd is the assistant command, used to recognise its processes.
	Cmd string
	// ReadyTimeout bounds the wait for a configured port to accept connections.
	ReadyTimeout time.Duration
	// PollInterval is the delay between readiness probes.
	PollInterval time.Duration

	// Runner lists processes; defaults to exec.
	Runner provider.Runner
	// Dial probes a TCP address; defaults to net.Dialer.
	Dial func(ctx context.Context, addr string) error
}

// Manager resolves and caches the server port.
type Manager struct {
	cfg Config

	mu     sync.Mutex
	cached int
}

// NewManager returns a Manager with defaults applied.
func NewManager(cfg Config) *Manager {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Runner == nil {
		cfg.Runner = provider.ExecRunner{}
	}
	if cfg.Dial == nil {
		cfg.Dial = dialTCP
	}
	return &Manager{cfg: cfg}
}

// GetPort returns the server port. Unless force is set a previously resolved
// port is returned without probing again.
func (m *Manager) GetPort(ctx context.Context, force bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !force && m.cached > 0 {
		return m.cached, nil
	}

	var (
		port int
		err  error
	)
	if m.cfg.Port > 0 {
		port, err = m.waitReady(ctx, m.cfg.Port)
	} else {
		port, err = m.discover(ctx)
	}
	if err != nil {
		return 0, err
	}
	m.cached = port
	return port, nil
}

func (m *Manager) waitReady(ctx context.Context, port int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ReadyTimeout)
	defer cancel()

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := m.cfg.Dial(ctx, addr); err == nil {
			logger.Debug().Int("port", port).Msg("opencode server is ready")
			return port, nil
		}
		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("waiting for opencode server on %s: %w", addr, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (m *Manager) discover(ctx context.Context) (int, error) {
	out, err := m.cfg.Runner.Output(ctx, "ps", "-eo", "pid=,args=")
	if err != nil {
		return 0, fmt.Errorf("listing processes: %w", err)
	}
	port := FindPort(string(out), commandName(m.cfg.Cmd))
	if port == 0 {
		return 0, ErrNoServer
	}
	logger.Debug().Int("port", port).Msg("discovered opencode server")
	return port, nil
}

// FindPort scans "ps -eo pid=,args=" output for the first process running
// name with a --port flag and returns that port, or 0.
func FindPort(ps, name string) int {
	for _, line := range strings.Split(ps, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		argv := fields[1:]
		if !runs(argv, name) {
			continue
		}
		if port := provider.PortFromArgs(argv); port > 0 {
			return port
		}
	}
	return 0
}

// runs reports whether name is the program or, for interpreter launches such
// as "node /path/opencode", the script being run.
func runs(argv []string, name string) bool {
	for i, arg := range argv {
		if i > 1 || strings.HasPrefix(arg, "-") {
			break
		}
		if filepath.Base(arg) == name {
			return true
		}
	}
	return false
}

func commandName(cmd string) string {
	argv, err := provider.Argv(cmd)
	if err != nil {
		return "opencode"
	}
	return filepath.Base(argv[0])
}

func dialTCP(ctx context.Context, addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
