// FILE: jsonsieve/src/internal/version/version.go
package version

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags "-X jsonsieve/src/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns the version line printed by the version command
func String() string {
	return fmt.Sprintf("jsonsieve %s (commit: %s, built: %s, %s)", Version, GitCommit, BuildTime, runtime.Version())
}

// Short returns just the version tag
func Short() string {
	return Version
}

// ServerName is the Server header value of the HTTP listener
func ServerName() string {
	return "jsonsieve/" + Version
}

// Info returns build details for the health endpoint
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"build_time": BuildTime,
		"go":         runtime.Version(),
	}
}
