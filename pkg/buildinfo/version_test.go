package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func setVars(t *testing.T, v, c, d string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = v, c, d
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	setVars(t, "dev", "none", "unknown")
	fromBuildInfo(bi)
	if Version != "v0.3.1" || Commit != "abc123" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("fromBuildInfo() = %s %s %s", Version, Commit, Date)
	}

	setVars(t, "v1.0.0", "feed", "today")
	fromBuildInfo(bi)
	if Version != "v1.0.0" || Commit != "feed" || Date != "today" {
		t.Errorf("fromBuildInfo() overrode ldflags values: %s %s %s", Version, Commit, Date)
	}

	setVars(t, "dev", "none", "unknown")
	fromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "dev" {
		t.Errorf("Version = %q for a devel build, want dev", Version)
	}
}

func TestTemplate(t *testing.T) {
	setVars(t, "v1.2.3", "abc", "2026-10-14")
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version v1.2.3\n") || !strings.Contains(got, "commit: abc") {
		t.Errorf("Template() = %q", got)
	}
	if want := "version: v1.2.3\ncommit: abc\nbuilt: 2026-10-14"; String() != want {
		t.Errorf("String() = %q, want %q", String(), want)
	}
}
