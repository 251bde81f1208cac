//go:build !windows && !linux

package instance

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Identify asks ps for the process start time.
func Identify(pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("invalid pid %d", pid)
	}
	out, err := exec.Command("ps", "-o", "lstart=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return "", fmt.Errorf("process %d not found: %w", pid, err)
	}
	id := strings.Join(strings.Fields(string(out)), " ")
	if id == "" {
		return "", fmt.Errorf("process %d not found", pid)
	}
	return id, nil
}
