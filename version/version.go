// Package version holds build-time identification, populated via
// -ldflags -X at build time (unset values fall back to "dev"/"none"/"unknown").
package version

import "runtime"

var (
	// GitRelease is the tagged release this binary was built from.
	GitRelease = "dev"
	// GitCommit is the commit hash this binary was built from.
	GitCommit = "none"
	// GitCommitDate is the commit timestamp this binary was built from.
	GitCommitDate = "unknown"
	// GoInfo is the Go toolchain version this binary was built with.
	GoInfo = runtime.Version()
)
