// Package version carries build metadata stamped in with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/refreshd/internal/version.Version=v0.3.0"
package version

import "fmt"

var Version = "unknown"

// Build metadata, also set through ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by refreshd --version.
func String() string {
	return fmt.Sprintf("refreshd %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
