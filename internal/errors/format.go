package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	categoryColor    = color.New(color.FgRed, color.Bold)
	usageColor       = color.New(color.FgCyan)
	remediationColor = color.New(color.FgYellow)
)

// PrintError writes the formatted error to stderr.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError writes the formatted error to w. Colors follow fatih/color's
// terminal detection.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, format(err, !color.NoColor))
}

// format renders err with its category header, usage and remediation.
// Errors that are not CLIErrors are rendered as Runtime errors.
func format(err error, colored bool) string {
	if err == nil {
		return ""
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = &CLIError{Category: Runtime, Message: err.Error()}
	}

	paint := func(c *color.Color, s string) string {
		if !colored {
			return s
		}
		return c.Sprint(s)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", paint(categoryColor, cliErr.Category.String()), cliErr.Message)
	if cliErr.Usage != "" {
		fmt.Fprintf(&b, "\n%s %s\n", paint(usageColor, "Usage:"), cliErr.Usage)
	}
	if len(cliErr.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", paint(remediationColor, "To fix this:"))
		for _, step := range cliErr.Remediation {
			fmt.Fprintf(&b, "  - %s\n", step)
		}
	}
	return b.String()
}
