// Package version reports build metadata set via LDFLAGS.
package version

import (
	"fmt"
	"runtime"
)

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"     // Default value if not built with LDFLAGS
	CommitHash = "unknown" // Default value
	BuildDate  = "unknown" // Default value
)

// String renders the version line printed by `lens version`.
func String() string {
	return fmt.Sprintf("lens %s (commit %s, built %s, %s/%s)",
		Version, CommitHash, BuildDate, runtime.GOOS, runtime.GOARCH)
}
