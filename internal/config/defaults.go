package config

import "time"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"provider":             ProviderAuto,
		"cmd":                  "opencode",
		"port":                 0,
		"events.enabled":       false,
		"server.ready_timeout": 10 * time.Second,
		"tmux.options":         "-h -l 35%",
		"kitty.location":       "vsplit",
		"wezterm.direction":    "right",
		"wezterm.percent":      35,
		"terminal.emulator":    "",
		"log.file":             true,
		"log.max_size_mb":      10,
		"log.max_age_days":     7,
		"log.max_backups":      3,
		"notify.desktop":       false,
	}
}
