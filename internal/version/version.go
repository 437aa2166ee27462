// Package version holds build-time version information injected via ldflags.
package version

// Version is the semantic version, set at build time.
var Version = "dev"

// Commit is the git commit hash, set at build time.
var Commit = "unknown"
