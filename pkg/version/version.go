// Package version exposes the build-time version of the swebatch binary.
package version

// Version is the semantic version of the binary. It is overridden at
// build time via -ldflags "-X github.com/lycfight/swebatch/pkg/version.Version=...".
//
//nolint:gochecknoglobals // Set once by the linker, read-only afterwards.
var Version = "0.1.0-dev"

// GetVersion returns the current binary version.
func GetVersion() string {
	return Version
}
