package app

import "fmt"

// Build information set with -ldflags at release time.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

// VersionString is printed by the CLI's --version flag.
func VersionString() string {
	return fmt.Sprintf("searxquery %s (commit %s, built %s)", BuildVersion, BuildCommit, BuildDate)
}
