package provider

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// CommandLine returns cmd with "--port <port>" appended when port is set and
// cmd does not already carry a --port flag.
func CommandLine(cmd string, port int) string {
	if port <= 0 || hasPortFlag(cmd) {
		return cmd
	}
	return cmd + " --port " + strconv.Itoa(port)
}

// Argv splits a command line using shell quoting rules.
func Argv(cmdline string) ([]string, error) {
	argv, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", cmdline, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return argv, nil
}

// PortFromArgs returns the value of a --port flag in argv, or 0.
func PortFromArgs(argv []string) int {
	for i, arg := range argv {
		var value string
		switch {
		case arg == "--port" && i+1 < len(argv):
			value = argv[i+1]
		case strings.HasPrefix(arg, "--port="):
			value = strings.TrimPrefix(arg, "--port=")
		default:
			continue
		}
		if port, err := strconv.Atoi(value); err == nil && port > 0 {
			return port
		}
	}
	return 0
}

func hasPortFlag(cmd string) bool {
	argv, err := shlex.Split(cmd)
	if err != nil {
		return strings.Contains(cmd, "--port")
	}
	for _, arg := range argv {
		if arg == "--port" || strings.HasPrefix(arg, "--port=") {
			return true
		}
	}
	return false
}
