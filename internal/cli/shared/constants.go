// Package shared provides constants, exit codes and the command wiring used
// across CLI subpackages. It has no dependencies on other CLI packages to
// avoid circular imports.
package shared

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/occtl/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupAssistant     = "assistant"
	GroupConfiguration = "configuration"
	GroupUtility       = "utility"
)

// Exit codes for CLI commands
const (
	ExitSuccess           = 0
	ExitValidationFailed  = 1
	ExitRetryLimitReached = 2
	ExitInvalidArguments  = 3
	ExitMissingDependency = 4
	ExitTimeout           = 5
)

// exitError is a custom error type that carries an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code. It is returned by
// commands that already reported their failure, so it is never printed.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// IsExitError reports whether err only carries an exit code.
func IsExitError(err error) bool {
	var e *exitError
	return errors.As(err, &e)
}

// ExitCode returns the exit code for an error. Configuration errors map to
// ExitMissingDependency, the code editors show a doctor hint for.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil && cliErr.Category == clierrors.Configuration {
		return ExitMissingDependency
	}
	return ExitValidationFailed
}
