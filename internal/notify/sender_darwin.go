//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// darwinSender uses osascript.
type darwinSender struct {
	available bool
}

func newDarwinSender() Sender {
	return &darwinSender{available: toolAvailable("osascript")}
}

func newLinuxSender() Sender   { return noopSender{} }
func newWindowsSender() Sender { return noopSender{} }

func (s *darwinSender) Send(n Notification) error {
	if !s.available {
		return nil
	}
	script := fmt.Sprintf(`display notification %q with title %q`, n.Message, n.Title)
	return exec.Command("osascript", "-e", script).Run()
}

func (s *darwinSender) Available() bool { return s.available }
