//go:build !windows

package instance

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameProcess_ExitedProcess(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid

	id, err := Identify(pid)
	require.NoError(t, err)
	rec := Record{PID: pid, Identity: id}
	assert.True(t, SameProcess(rec, Identify))
	assert.False(t, SameProcess(Record{PID: pid, Identity: "someone else"}, Identify))

	require.NoError(t, Terminate(pid))
	_ = cmd.Wait()
	assert.False(t, SameProcess(rec, Identify), "an exited process is no longer ours")
}
