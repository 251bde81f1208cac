package server

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ariel-frischer/occtl/internal/provider/providertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const psOutput = `    1 /sbin/init
  812 /usr/bin/zsh
 1200 /usr/local/bin/opencode --port 4123
 1300 node /home/u/.opencode/bin/opencode --port=5000
`

func TestFindPort(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		ps   string
		name string
		want int
	}{
		"first match wins": {ps: psOutput, name: "opencode", want: 4123},
		"interpreter launch": {
			ps:   " 1300 node /home/u/.opencode/bin/opencode --port=5000\n",
			name: "opencode",
			want: 5000,
		},
		"no port flag":  {ps: " 1 opencode\n", name: "opencode", want: 0},
		"other program": {ps: " 1 vim --port 3000 opencode\n", name: "opencode", want: 0},
		"empty":         {ps: "", name: "opencode", want: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FindPort(tt.ps, tt.name))
		})
	}
}

func TestGetPort_Discovery(t *testing.T) {
	t.Parallel()

	r := (&providertest.Runner{}).On("ps", psOutput, nil)
	m := NewManager(Config{Cmd: "opencode", Runner: r})

	port, err := m.GetPort(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 4123, port)

	port, err = m.GetPort(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 4123, port)
	assert.Len(t, r.Calls(), 1, "second call uses the cached port")

	_, err = m.GetPort(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, r.Calls(), 2, "force probes again")
}

func TestGetPort_NoServer(t *testing.T) {
	t.Parallel()

	r := (&providertest.Runner{}).On("ps", " 1 /sbin/init\n", nil)
	m := NewManager(Config{Cmd: "opencode", Runner: r})

	_, err := m.GetPort(context.Background(), false)
	assert.ErrorIs(t, err, ErrNoServer)
}

func TestGetPort_PSFailure(t *testing.T) {
	t.Parallel()

	r := (&providertest.Runner{}).On("ps", "", errors.New("ps: not found"))
	m := NewManager(Config{Cmd: "opencode", Runner: r})

	_, err := m.GetPort(context.Background(), false)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoServer)
}

func TestGetPort_ConfiguredPortReady(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	m := NewManager(Config{Port: port, ReadyTimeout: time.Second})
	got, err := m.GetPort(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, port, got)
}

func TestGetPort_WaitsUntilReady(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	m := NewManager(Config{
		Port:         4096,
		ReadyTimeout: time.Second,
		PollInterval: 5 * time.Millisecond,
		Dial: func(_ context.Context, addr string) error {
			assert.Equal(t, net.JoinHostPort("127.0.0.1", strconv.Itoa(4096)), addr)
			if attempts.Add(1) < 3 {
				return errors.New("connection refused")
			}
			return nil
		},
	})

	port, err := m.GetPort(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 4096, port)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestGetPort_ReadyTimeout(t *testing.T) {
	t.Parallel()

	m := NewManager(Config{
		Port:         4096,
		ReadyTimeout: 30 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		Dial:         func(context.Context, string) error { return errors.New("connection refused") },
	})

	_, err := m.GetPort(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
