//go:build linux

package notify

import (
	"os"
	"os/exec"
)

// linuxSender uses notify-send.
type linuxSender struct {
	available bool
}

func newLinuxSender() Sender {
	return &linuxSender{available: toolAvailable("notify-send") && hasDisplay()}
}

func newDarwinSender() Sender  { return noopSender{} }
func newWindowsSender() Sender { return noopSender{} }

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func (s *linuxSender) Send(n Notification) error {
	if !s.available {
		return nil
	}
	urgency := "normal"
	if n.Level == LevelError {
		urgency = "critical"
	}
	return exec.Command("notify-send", "-u", urgency, "-a", Title, n.Title, n.Message).Run()
}

func (s *linuxSender) Available() bool { return s.available }
