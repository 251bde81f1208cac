// Package notify reports asynchronous failures to the user.
//
// Every message is logged through the shared zerolog logger. When desktop
// notifications are enabled the message is also shown through the native OS
// notification tool:
//
//   - macOS: osascript
//   - Linux: notify-send (requires DISPLAY or WAYLAND_DISPLAY)
//   - Windows: PowerShell toast
//
// Desktop notifications degrade silently when the tool is missing, when
// running under CI, or when the tool does not answer within the timeout.
package notify
