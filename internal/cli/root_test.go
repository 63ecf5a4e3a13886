package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/seqgrid/pkg/buildinfo"
)

func TestSetVersion(t *testing.T) {
	saved := buildinfo.Get()
	t.Cleanup(func() {
		buildinfo.Version, buildinfo.Commit, buildinfo.Date = saved.Version, saved.Commit, saved.Date
	})

	SetVersion("v1.0.0", "abc123", "2025-01-01")
	if got := buildinfo.Get(); got != (buildinfo.Info{Version: "v1.0.0", Commit: "abc123", Date: "2025-01-01"}) {
		t.Errorf("buildinfo after SetVersion = %+v", got)
	}

	SetVersion("", "", "")
	if got := buildinfo.Get(); got.Version != "v1.0.0" || got.Commit != "abc123" {
		t.Errorf("empty SetVersion should keep values, got %+v", got)
	}
}

func TestRootVersionTemplate(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	if root.Version != buildinfo.Version {
		t.Errorf("root version = %q, want %q", root.Version, buildinfo.Version)
	}
	if !strings.Contains(root.VersionTemplate(), "commit: ") {
		t.Errorf("version template = %q", root.VersionTemplate())
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}
