package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/server"
	"github.com/matzehuels/seqgrid/pkg/storage"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

func testModel(t *testing.T, n int) PlanModel {
	t.Helper()
	f, err := layout.DefaultFrame(10, 3)
	if err != nil {
		t.Fatalf("DefaultFrame: %v", err)
	}
	segs := make([]tile.Segment, n)
	for i := range segs {
		segs[i] = tile.Segment{
			Name:         "chr" + string(rune('A'+i)),
			Length:       int64(100 * (i + 1)),
			ResetPadding: 10,
			TitlePadding: 100,
			TailPadding:  5,
		}
	}
	segs[n-1].TitleOmitted = true
	rec := &storage.Record{Layout: f.Description(), Segments: segs, Width: 300, Height: 200}
	return NewPlanModel("test.fa", rec, server.LevelTable(f))
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "end":
			msg = tea.KeyMsg{Type: tea.KeyEnd}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestPlanModelNavigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantCursor int
	}{
		{"down", []string{"down", "down"}, 2},
		{"vim keys", []string{"j", "j", "k"}, 1},
		{"clamped at top", []string{"up", "k"}, 0},
		{"clamped at bottom", []string{"end", "down"}, 19},
		{"levels tab ignores movement", []string{"tab", "down", "down"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(testModel(t, 20), tt.keys...).(PlanModel)
			if m.Cursor != tt.wantCursor {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.wantCursor)
			}
			if m.Cursor < m.Offset || m.Cursor >= m.Offset+m.Height {
				t.Errorf("cursor %d outside window [%d, %d)", m.Cursor, m.Offset, m.Offset+m.Height)
			}
		})
	}
}

func TestPlanModelStarts(t *testing.T) {
	m := testModel(t, 3)
	// Each segment adds reset 10, title 100 before its sequence and tail 5 after.
	want := []int64{110, 110 + 100 + 5 + 110, 110 + 100 + 5 + 110 + 200 + 5 + 110}
	for i, w := range want {
		if m.starts[i] != w {
			t.Errorf("starts[%d] = %d, want %d", i, m.starts[i], w)
		}
	}
}

func TestPlanModelView(t *testing.T) {
	m := testModel(t, 3)
	view := m.View()
	for _, want := range []string{"test.fa", "chrA", "chrC", "Segment", "300×200 px"} {
		if !strings.Contains(view, want) {
			t.Errorf("segment view lacks %q", want)
		}
	}

	levels := press(m, "tab").(PlanModel).View()
	if !strings.Contains(levels, layout.LevelName(2)) || !strings.Contains(levels, "Thickness") {
		t.Errorf("levels view lacks the level table:\n%s", levels)
	}
	back := press(m, "tab", "tab").(PlanModel)
	if back.Tab != viewSegments {
		t.Error("second tab should return to segments")
	}
}

func TestPlanModelQuit(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		var msg tea.KeyMsg
		if key == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd := testModel(t, 2).Update(msg)
		if cmd == nil {
			t.Fatalf("%s returned no command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", key)
		}
	}
}

func TestPlanModelWindowResize(t *testing.T) {
	m := press(testModel(t, 20), "end").(PlanModel)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 14})
	m = next.(PlanModel)
	if m.Height != 5 {
		t.Errorf("Height = %d, want the minimum of 5", m.Height)
	}
	if m.Offset != 15 {
		t.Errorf("Offset = %d, want 15 so the last row stays visible", m.Offset)
	}
}
