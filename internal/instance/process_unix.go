//go:build !windows

package instance

import "syscall"

// Terminate sends SIGTERM to pid.
func Terminate(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}
