// Package buildinfo carries the version stamped into curriculummap at link
// time:
//
//	go build -ldflags "-X github.com/matzehuels/curriculummap/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/curriculummap/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/curriculummap/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the JSON shape reported by the server's health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
}

// Current returns the linked build information.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the build information one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}
