// Package errors provides structured CLI errors for occtl. Each error carries a
// category, a human-readable message, optional usage text and remediation steps,
// and an optional wrapped cause for errors.Is / errors.As.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory classifies an error for display and exit-code mapping.
type ErrorCategory int

const (
	// Argument errors are caused by invalid command-line input.
	Argument ErrorCategory = iota
	// Configuration errors are caused by missing or invalid configuration,
	// including "no usable provider".
	Configuration
	// Prerequisite errors are caused by missing external tools or state.
	Prerequisite
	// Runtime errors happen while talking to a provider or the assistant.
	Runtime
)

// String returns the display label for the category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a categorized, user-facing error.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the message only; category and remediation are rendered by FormatError.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewArgumentError creates an Argument error.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Remediation: remediation}
}

// NewArgumentErrorWithUsage creates an Argument error with a usage line.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

// NewConfigError creates a Configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: message, Remediation: remediation}
}

// NewPrerequisiteError creates a Prerequisite error.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Prerequisite, Message: message, Remediation: remediation}
}

// NewRuntimeError creates a Runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Runtime, Message: message, Remediation: remediation}
}

// Wrap converts err into a CLIError of the given category, keeping its message.
// Returns nil for a nil error.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		Err:         err,
	}
}

// WrapWithMessage wraps err with an outer message, producing "outer: inner".
// Returns nil for a nil error.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %s", message, err.Error()),
		Remediation: remediation,
		Err:         err,
	}
}

// IsCLIError reports whether err is, or wraps, a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
