// Package version is the single source of truth for version information.
package version

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X github.com/bevzzz/cody/internal/version.Version=1.0.0"
var (
	// Version is the semantic version of the context engine.
	Version = "0.1.0"

	// Commit is the git commit hash (set at build time).
	Commit = "unknown"
)

// Info returns a formatted version string.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}
