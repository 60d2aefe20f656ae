// Package version holds build identification, overridden via ldflags.
package version

var (
	// Version is the release version of the eddytrack binary
	Version = "dev"
	// GitSHA is the git commit the binary was built from
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)
