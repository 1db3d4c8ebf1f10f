package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFillFromBuildInfo(t *testing.T) {
	stamp(t, "dev", "none", "unknown")

	fill(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-19T06:00:00Z"},
		},
	}, true)

	if Version != "v0.3.1" || Commit != "abc123" || Date != "2026-10-19T06:00:00Z" {
		t.Errorf("got %s %s %s", Version, Commit, Date)
	}
}

func TestFillKeepsStampedValues(t *testing.T) {
	stamp(t, "v1.0.0", "deadbeef", "2026-01-01")

	fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}},
	}, true)

	if Version != "v1.0.0" || Commit != "deadbeef" {
		t.Errorf("stamped values overwritten: %s %s", Version, Commit)
	}
}

func TestFillIgnoresDevel(t *testing.T) {
	stamp(t, "dev", "none", "unknown")
	fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
	fill(nil, false)
	if Version != "dev" {
		t.Errorf("Version = %q, want dev", Version)
	}
}

func TestTemplateAndUserAgent(t *testing.T) {
	stamp(t, "v1.2.0", "abc", "today")
	if got := Template(); !strings.Contains(got, "v1.2.0") || !strings.Contains(got, "commit abc") {
		t.Errorf("Template() = %q", got)
	}
	if got := UserAgent(); got != "pocketdigest/v1.2.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}
