// Package config loads occtl configuration with koanf. Sources are layered
// defaults < global file < local file < environment, then validated with
// go-playground/validator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	clierrors "github.com/ariel-frischer/occtl/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. OCCTL_PORT=4096.
	EnvPrefix = "OCCTL_"

	// LocalFileName is the project-local config file looked up in the working directory.
	LocalFileName = ".occtl.json"

	// ProviderAuto selects the first provider whose environment is detected.
	ProviderAuto = "auto"
)

// Configuration represents the occtl configuration
type Configuration struct {
	// Provider names the terminal back end, or "auto".
	Provider string `koanf:"provider" json:"provider" validate:"required,oneof=auto embedded tmux kitty wezterm terminal"`
	// Cmd is the command line used to launch the assistant.
	Cmd string `koanf:"cmd" json:"cmd" validate:"required"`
	// Port is the assistant server port; 0 means "not configured".
	Port int `koanf:"port" json:"port" validate:"min=0,max=65535"`

	Events   EventsConfig   `koanf:"events" json:"events"`
	Server   ServerConfig   `koanf:"server" json:"server"`
	Tmux     TmuxConfig     `koanf:"tmux" json:"tmux"`
	Kitty    KittyConfig    `koanf:"kitty" json:"kitty"`
	Wezterm  WeztermConfig  `koanf:"wezterm" json:"wezterm"`
	Terminal TerminalConfig `koanf:"terminal" json:"terminal"`
	Log      LogConfig      `koanf:"log" json:"log"`
	Notify   NotifyConfig   `koanf:"notify" json:"notify"`

	// Sources lists the config files that were actually loaded, lowest priority first.
	Sources []string `koanf:"-" json:"-"`
}

// EventsConfig controls the server-sent-event subscription.
type EventsConfig struct {
	Enabled bool `koanf:"enabled" json:"enabled"`
}

// ServerConfig controls how the assistant server port is resolved.
type ServerConfig struct {
	ReadyTimeout time.Duration `koanf:"ready_timeout" json:"ready_timeout" validate:"min=0"`
}

// TmuxConfig holds extra split-window flags.
type TmuxConfig struct {
	Options string `koanf:"options" json:"options"`
}

// KittyConfig holds the kitty launch location.
type KittyConfig struct {
	Location string `koanf:"location" json:"location" validate:"omitempty,oneof=vsplit hsplit split before after first neighbor last default"`
}

// WeztermConfig holds split-pane placement.
type WeztermConfig struct {
	Direction string `koanf:"direction" json:"direction" validate:"oneof=right left top bottom"`
	Percent   int    `koanf:"percent" json:"percent" validate:"min=1,max=99"`
}

// TerminalConfig holds the fallback terminal emulator.
type TerminalConfig struct {
	// Emulator overrides $TERMINAL. Empty means use $TERMINAL.
	Emulator string `koanf:"emulator" json:"emulator"`
}

// LogConfig holds file-logging rotation settings.
type LogConfig struct {
	File       bool `koanf:"file" json:"file"`
	MaxSizeMB  int  `koanf:"max_size_mb" json:"max_size_mb" validate:"min=0"`
	MaxAgeDays int  `koanf:"max_age_days" json:"max_age_days" validate:"min=0"`
	MaxBackups int  `koanf:"max_backups" json:"max_backups" validate:"min=0"`
}

// NotifyConfig controls desktop notifications for warnings.
type NotifyConfig struct {
	Desktop bool `koanf:"desktop" json:"desktop"`
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
//
// localConfigPath may be empty, in which case .occtl.json in the working
// directory is used when present. Missing files are skipped, except an
// explicit localConfigPath, which must exist.
func Load(localConfigPath string) (*Configuration, error) {
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err != nil {
			return nil, clierrors.ConfigFileNotFound(localConfigPath)
		}
	}

	k, err := withDefaults()
	if err != nil {
		return nil, err
	}

	var (
		sources []string
		loaded  bool
	)
	if globalPath := GlobalPath(); globalPath != "" {
		loaded, err = loadFile(k, globalPath)
		if err != nil {
			return nil, err
		}
		if loaded {
			sources = append(sources, globalPath)
		}
	}

	if localConfigPath == "" {
		localConfigPath = LocalFileName
	}
	loaded, err = loadFile(k, localConfigPath)
	if err != nil {
		return nil, err
	}
	if loaded {
		sources = append(sources, localConfigPath)
	}

	// Override with environment variables (highest priority)
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Defaults returns the configuration built from defaults alone. Commands that
// must keep working with a broken config file, such as doctor, fall back to it.
func Defaults() *Configuration {
	var cfg Configuration
	k, err := withDefaults()
	if err == nil {
		err = k.Unmarshal("", &cfg)
	}
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return &cfg
}

func withDefaults() (*koanf.Koanf, error) {
	k := koanf.New(".")
	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply default %s: %w", key, err)
		}
	}
	return k, nil
}

// Validate checks struct-tag constraints and returns a Configuration CLIError.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Configuration, "config validation failed",
			"Run 'occtl config' to see the effective configuration")
	}
	return nil
}

// loadFile merges a JSON config file into k. It reports false when the file does not exist.
func loadFile(k *koanf.Koanf, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return false, clierrors.ConfigParseError(path, err)
	}
	return true, nil
}

// envTransform converts environment variable names to config keys.
// A double underscore separates nesting levels:
// OCCTL_EVENTS__ENABLED -> events.enabled, OCCTL_LOG__MAX_SIZE_MB -> log.max_size_mb
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// GlobalPath returns the user-level config file path, honouring XDG_CONFIG_HOME.
// Returns "" if no home directory can be determined.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "occtl", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "occtl", "config.json")
}

// StateDir returns the directory for log files, honouring XDG_STATE_HOME.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "occtl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "occtl")
	}
	return filepath.Join(home, ".local", "state", "occtl")
}

// RuntimeDir returns the directory for per-login bookkeeping such as the
// instance record. It prefers XDG_RUNTIME_DIR, which is cleared on logout.
func RuntimeDir() string {
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "occtl")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("occtl-%d", os.Getuid()))
}
