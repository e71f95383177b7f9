// Package version carries build-time identification for the CLI harnesses.
package version

import "fmt"

// Set at build time via -ldflags.
var (
	// Version is the release tag.
	Version = "0.1.0"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the source revision.
	GitCommit = "unknown"
)

// String formats the one-line version banner.
func String() string {
	return fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)
}
