// Package buildinfo reports which build of pocketdigest is running.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags "-X github.com/pocketdigest/pocketdigest/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/pocketdigest/pocketdigest/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/pocketdigest/pocketdigest/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to the module version and VCS settings the Go
// toolchain records, so "go install ...@v1.0.0" still reports v1.0.0.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() { fill(debug.ReadBuildInfo()) }

// fill replaces unstamped values with what the toolchain recorded.
func fill(info *debug.BuildInfo, ok bool) {
	if !ok || info == nil {
		return
	}
	if v := info.Main.Version; Version == "dev" && v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// UserAgent identifies pocketdigest to the services it calls.
func UserAgent() string { return "pocketdigest/" + Version }

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
