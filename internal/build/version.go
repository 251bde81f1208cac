// Package build provides version and build information for occtl.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Info returns the multi-line version banner printed by `occtl version`.
func Info() string {
	return fmt.Sprintf("occtl version %s\nBuilt from commit: %s\nBuild date: %s\nGo version: %s\n",
		Version, Commit, BuildDate, runtime.Version())
}
