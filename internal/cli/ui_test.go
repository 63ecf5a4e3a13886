package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/server"
)

func TestFormatStats(t *testing.T) {
	tests := []struct {
		name     string
		segments int
		w, h     int
		cached   bool
		want     []string
	}{
		{"fresh", 24, 1200, 800, false, []string{"24 segments", "1200×800 px", iconFresh}},
		{"cached single", 1, 10, 10, true, []string{"1 segment", iconCached}},
		{"no dimensions", 3, 0, 0, false, []string{"3 segments", iconFresh}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatStats(tt.segments, tt.w, tt.h, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("formatStats = %q, want it to contain %q", got, w)
				}
			}
		})
	}
	if got := formatStats(3, 0, 0, false); strings.Contains(got, "px") {
		t.Errorf("formatStats without dimensions = %q", got)
	}
}

func TestLevelTable(t *testing.T) {
	f, err := layout.DefaultFrame(100, 3)
	if err != nil {
		t.Fatalf("DefaultFrame: %v", err)
	}
	out := levelTable(server.LevelTable(f))
	for i := 0; i < f.Len(); i++ {
		if !strings.Contains(out, layout.LevelName(i)) {
			t.Errorf("table lacks level %d (%s)", i, layout.LevelName(i))
		}
	}
	if !strings.Contains(out, "Modulo") || !strings.Contains(out, "Thickness") {
		t.Errorf("table lacks headers:\n%s", out)
	}
}
