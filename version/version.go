// Package version holds build-time version information.
// The variables are stamped via -ldflags at release time.
package version

import "runtime"

var (
	// GitRelease is the release tag (e.g. v0.3.0), or "dev" for local builds.
	GitRelease = "dev"

	// GitCommit is the short commit hash the binary was built from.
	GitCommit = "unknown"

	// GitCommitDate is the commit date of GitCommit.
	GitCommitDate = "unknown"

	// GoInfo is the Go toolchain version used for the build.
	GoInfo = runtime.Version()
)
