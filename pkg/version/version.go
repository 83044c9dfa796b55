// Package version exposes the CLI's build version.
package version

// Version is overridden at build time via
// -ldflags "-X github.com/sjacorg/bayanat-cli/pkg/version.Version=v1.2.3".
var Version = "dev"

// GetVersion returns the CLI version string.
func GetVersion() string {
	return Version
}
