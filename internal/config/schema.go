package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ValueType is the expected type of a configuration value.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeDuration
	TypeString
	TypeEnum
)

// String returns the string representation of ValueType.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// KeySchema describes one settable configuration key.
type KeySchema struct {
	Path          string    // Dotted key path (e.g., "events.enabled")
	Type          ValueType // Expected value type for validation
	AllowedValues []string  // Valid values for enum types
	Min, Max      int       // Inclusive bounds for ints; both zero means unbounded
	Description   string
}

// KnownKeys is the registry of keys accepted by `occtl config set`.
// Defaults come from GetDefaults.
var KnownKeys = map[string]KeySchema{
	"provider": {
		Path:          "provider",
		Type:          TypeEnum,
		AllowedValues: []string{ProviderAuto, "embedded", "tmux", "kitty", "wezterm", "terminal"},
		Description:   "Terminal back end, or auto to detect one",
	},
	"cmd": {
		Path:        "cmd",
		Type:        TypeString,
		Description: "Command line that launches the assistant",
	},
	"port": {
		Path:        "port",
		Type:        TypeInt,
		Min:         0,
		Max:         65535,
		Description: "Assistant server port; 0 discovers it from running processes",
	},
	"events.enabled": {
		Path:        "events.enabled",
		Type:        TypeBool,
		Description: "Subscribe to the event stream after toggle and start",
	},
	"server.ready_timeout": {
		Path:        "server.ready_timeout",
		Type:        TypeDuration,
		Description: "How long to wait for a configured port to accept connections",
	},
	"tmux.options": {
		Path:        "tmux.options",
		Type:        TypeString,
		Description: "Extra flags for tmux split-window",
	},
	"kitty.location": {
		Path:          "kitty.location",
		Type:          TypeEnum,
		AllowedValues: []string{"vsplit", "hsplit", "split", "before", "after", "first", "neighbor", "last", "default"},
		Description:   "kitty launch --location",
	},
	"wezterm.direction": {
		Path:          "wezterm.direction",
		Type:          TypeEnum,
		AllowedValues: []string{"right", "left", "top", "bottom"},
		Description:   "Side of the current pane to split",
	},
	"wezterm.percent": {
		Path:        "wezterm.percent",
		Type:        TypeInt,
		Min:         1,
		Max:         99,
		Description: "Size of the new pane as a percentage",
	},
	"terminal.emulator": {
		Path:        "terminal.emulator",
		Type:        TypeString,
		Description: "Terminal emulator command; empty uses $TERMINAL",
	},
	"log.file": {
		Path:        "log.file",
		Type:        TypeBool,
		Description: "Write a rotating JSON log file in the state directory",
	},
	"log.max_size_mb": {
		Path:        "log.max_size_mb",
		Type:        TypeInt,
		Description: "Log file size before rotation",
	},
	"log.max_age_days": {
		Path:        "log.max_age_days",
		Type:        TypeInt,
		Description: "Days to keep rotated log files",
	},
	"log.max_backups": {
		Path:        "log.max_backups",
		Type:        TypeInt,
		Description: "Rotated log files to keep",
	},
	"notify.desktop": {
		Path:        "notify.desktop",
		Type:        TypeBool,
		Description: "Also show background warnings as desktop notifications",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
func GetKeySchema(path string) (KeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return KeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the known key paths in lexical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParsedValue is a configuration value after validation.
type ParsedValue struct {
	Raw    string
	Parsed interface{}
	Type   ValueType
}

// ValidateValue validates a raw string against the schema for key.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return schema.parse(value)
}

func (s KeySchema) parse(value string) (ParsedValue, error) {
	switch s.Type {
	case TypeBool:
		switch strings.ToLower(value) {
		case "true":
			return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
		case "false":
			return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
		}
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	case TypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
		}
		if (s.Min != 0 || s.Max != 0) && (n < s.Min || n > s.Max) {
			return ParsedValue{}, fmt.Errorf("%d out of range (%d-%d)", n, s.Min, s.Max)
		}
		if s.Min == 0 && s.Max == 0 && n < 0 {
			return ParsedValue{}, fmt.Errorf("%d must not be negative", n)
		}
		return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
	case TypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 5s, 1m)", value)
		}
		return ParsedValue{Raw: value, Parsed: d.String(), Type: TypeDuration}, nil
	case TypeEnum:
		for _, allowed := range s.AllowedValues {
			if value == allowed {
				return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
			}
		}
		return ParsedValue{}, fmt.Errorf("invalid value: %q (valid options: %s)",
			value, strings.Join(s.AllowedValues, ", "))
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", s.Type)
	}
}
