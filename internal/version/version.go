// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata on one line.
func String() string {
	return fmt.Sprintf("solrq %s (commit %s, built %s)", Version, Commit, Date)
}

// UserAgent is sent with every request to the search server.
func UserAgent() string {
	return "solrq/" + Version
}
