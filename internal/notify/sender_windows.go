//go:build windows

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// windowsSender shows a toast through PowerShell.
type windowsSender struct {
	available bool
}

func newWindowsSender() Sender {
	return &windowsSender{available: toolAvailable("powershell")}
}

func newDarwinSender() Sender { return noopSender{} }
func newLinuxSender() Sender  { return noopSender{} }

const toastScript = `
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$text = $template.GetElementsByTagName('text')
$text.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
$text.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('occtl').Show($toast)
`

func (s *windowsSender) Send(n Notification) error {
	if !s.available {
		return nil
	}
	script := fmt.Sprintf(toastScript, escapeForPowerShell(n.Title), escapeForPowerShell(n.Message))
	return exec.Command("powershell", "-ExecutionPolicy", "Bypass", "-NoProfile", "-Command", script).Run()
}

func (s *windowsSender) Available() bool { return s.available }

// escapeForPowerShell escapes a value for a single-quoted PowerShell string.
// Only quote characters are special there; PowerShell also accepts the
// typographic single quotes as delimiters, so those are doubled too.
func escapeForPowerShell(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '\'', '\u2018', '\u2019', '\u201a', '\u201b':
			b.WriteRune(c)
		}
		b.WriteRune(c)
	}
	return b.String()
}
