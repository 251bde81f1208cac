package embedded

import (
	"context"
	"errors"
	"testing"

	"github.com/ariel-frischer/occtl/internal/instance"
	"github.com/ariel-frischer/occtl/internal/provider"
	"github.com/ariel-frischer/occtl/internal/provider/providertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, store *instance.Store) *Provider {
	t.Helper()
	p, err := New(provider.Options{
		Cmd:        "opencode",
		Port:       4096,
		Root:       "/proj",
		Store:      store,
		Getenv:     providertest.Env(nil),
		IsTerminal: func() bool { return true },
	})
	require.NoError(t, err)
	return p.(*Provider)
}

// identities answers Identify for the pids in ids.
func identities(ids map[int]string) instance.IdentifyFunc {
	return func(pid int) (string, error) {
		if id, ok := ids[pid]; ok {
			return id, nil
		}
		return "", errors.New("no such process")
	}
}

func TestStart_RecordsWhileRunning(t *testing.T) {
	t.Parallel()

	store := instance.NewStore(t.TempDir())
	p := newTestProvider(t, store)

	var (
		gotArgv []string
		gotDir  string
		seen    instance.Record
	)
	p.run = func(_ context.Context, argv []string, dir string, started func(int)) error {
		gotArgv, gotDir = argv, dir
		started(321)
		rec, found, err := store.Get("occtl:/proj")
		require.NoError(t, err)
		require.True(t, found, "pid is recorded while the instance runs")
		seen = rec
		return nil
	}
	p.identify = identities(map[int]string{321: "boot-321"})

	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, []string{"opencode", "--port", "4096"}, gotArgv)
	assert.Equal(t, "/proj", gotDir)
	assert.Equal(t, 321, seen.PID)
	assert.Equal(t, "boot-321", seen.Identity)
	assert.Equal(t, Name, seen.Provider)

	_, found, err := store.Get("occtl:/proj")
	require.NoError(t, err)
	assert.False(t, found, "record is cleared after exit")
}

func TestToggle(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		recorded      bool
		live          string
		wantRun       bool
		wantTerminate bool
	}{
		"not running starts":     {wantRun: true},
		"stale record starts":    {recorded: true, wantRun: true},
		"reused pid starts":      {recorded: true, live: "boot-77", wantRun: true},
		"running instance stops": {recorded: true, live: "boot-55", wantTerminate: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := instance.NewStore(t.TempDir())
			if tt.recorded {
				require.NoError(t, store.Put("occtl:/proj", instance.Record{Provider: Name, PID: 55, Identity: "boot-55"}))
			}
			p := newTestProvider(t, store)

			var ran bool
			var terminated []int
			p.run = func(context.Context, []string, string, func(int)) error {
				ran = true
				return nil
			}
			live := map[int]string{}
			if tt.live != "" {
				live[55] = tt.live
			}
			p.identify = identities(live)
			p.terminate = func(pid int) error {
				terminated = append(terminated, pid)
				return nil
			}

			require.NoError(t, p.Toggle(context.Background()))
			assert.Equal(t, tt.wantRun, ran)
			if tt.wantTerminate {
				assert.Equal(t, []int{55}, terminated)
			} else {
				assert.Empty(t, terminated)
			}
		})
	}
}

func TestStart_RunError(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, instance.NewStore(t.TempDir()))
	p.run = func(context.Context, []string, string, func(int)) error {
		return errors.New("exit status 1")
	}

	err := p.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		tty  bool
		env  map[string]string
		want bool
	}{
		"plain terminal": {tty: true, want: ptySupported},
		"not a terminal": {tty: false},
		"inside tmux":    {tty: true, env: map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"}},
		"inside kitty":   {tty: true, env: map[string]string{"KITTY_LISTEN_ON": "unix:/tmp/kitty"}},
		"inside wezterm": {tty: true, env: map[string]string{"WEZTERM_PANE": "3"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p, err := New(provider.Options{
				Cmd:        "opencode",
				Getenv:     providertest.Env(tt.env),
				IsTerminal: func() bool { return tt.tty },
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.(*Provider).Detect(context.Background()))
		})
	}
}

func TestHealth_NotATerminal(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, nil)
	p.isTTY = func() bool { return false }
	assert.False(t, p.Health(context.Background()).OK)
}

func TestForeground(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, nil)
	f, ok := provider.Provider(p).(provider.Foreground)
	require.True(t, ok)
	assert.True(t, f.Foreground())
}
