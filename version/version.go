// Package version holds build-time metadata stamped in via -ldflags.
package version

// Version is the pact-go release version, overridden at build time with
// -ldflags "-X github.com/pact-go/pact/version.Version=...".
var Version = "0.0.0-dev"

// Vcs is the commit hash the binary was built from.
var Vcs = "unknown"

// Timestamp is the build time, in RFC3339.
var Timestamp = "unknown"

// GoVersion is the toolchain version used to build the binary.
var GoVersion = "unknown"
