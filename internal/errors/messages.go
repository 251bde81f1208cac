package errors

import (
	"fmt"
	"strings"
)

// OpencodeNotFound returns an error for a missing assistant executable.
func OpencodeNotFound(cmd string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("%q not found in PATH", cmd),
		"Install opencode: https://opencode.ai/docs",
		"Or point `cmd` at the executable in your occtl config",
	)
}

// UnknownProvider returns an error for a provider name that is not registered.
func UnknownProvider(name string, available []string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("unknown provider %q", name),
		fmt.Sprintf("Set `provider` to one of: auto, %s", strings.Join(available, ", ")),
	)
}

// ConfigFileNotFound returns an error for an explicit --config path that does not exist.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Check the --config path",
		"Run 'occtl config' to see the effective configuration",
	)
}

// ConfigParseError returns an error for an unreadable config file.
func ConfigParseError(path string, err error) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     fmt.Sprintf("failed to parse config %s: %v", path, err),
		Remediation: []string{"Check the file for JSON syntax errors"},
		Err:         err,
	}
}

// ProviderUnsupported returns an error for a provider that cannot run in this environment.
func ProviderUnsupported(name, reason string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("provider %s is not usable here: %s", name, reason),
		"Run 'occtl doctor' for details",
	)
}
