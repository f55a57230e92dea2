// Package buildinfo exposes the version stamped into the svgtree binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/svgtree/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/svgtree/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/svgtree/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/svgtree
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the git SHA the binary was built from.
	Commit = "none"
	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Info is a snapshot of the build variables.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build variables.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Short returns the version with an abbreviated commit, e.g. "v0.3.0 (1a2b3c4)".
func Short() string {
	c := Commit
	if len(c) > 7 {
		c = c[:7]
	}
	if c == "none" || c == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, c)
}

// String returns the multi-line form printed by --version.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
