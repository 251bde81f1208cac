package notify

import (
	"os/exec"
	"runtime"
)

// Sender delivers desktop notifications.
type Sender interface {
	// Send shows n through the OS notification system.
	Send(n Notification) error
	// Available reports whether the platform tool is present.
	Available() bool
}

// NewSender returns the sender for the current OS, or a no-op sender on
// platforms without one.
func NewSender() Sender {
	switch runtime.GOOS {
	case "darwin":
		return newDarwinSender()
	case "linux":
		return newLinuxSender()
	case "windows":
		return newWindowsSender()
	default:
		return noopSender{}
	}
}

func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

type noopSender struct{}

func (noopSender) Send(Notification) error { return nil }
func (noopSender) Available() bool         { return false }
