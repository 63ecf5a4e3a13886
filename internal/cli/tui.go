package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/seqgrid/pkg/server"
	"github.com/matzehuels/seqgrid/pkg/storage"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	tabActive    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactive  = lipgloss.NewStyle().Foreground(colorGray)
)

type inspectView int

const (
	viewSegments inspectView = iota
	viewLevels
)

// =============================================================================
// PlanModel - Interactive plan browser
// =============================================================================

// PlanModel is the bubbletea model behind 'inspect'. It lists the segments
// of a plan with their padding, and the level table of its frame.
type PlanModel struct {
	Title  string
	Record *storage.Record
	Levels []server.LevelRow

	Tab    inspectView
	Cursor int
	Offset int
	Height int

	// starts[i] is the image cursor where segment i's sequence begins.
	starts []int64
}

// NewPlanModel creates a browser over rec.
func NewPlanModel(title string, rec *storage.Record, levels []server.LevelRow) PlanModel {
	starts := make([]int64, len(rec.Segments))
	var cursor int64
	for i, s := range rec.Segments {
		cursor += s.ResetPadding + s.TitlePadding
		starts[i] = cursor
		cursor += s.Length + s.TailPadding
	}
	return PlanModel{
		Title:  title,
		Record: rec,
		Levels: levels,
		Height: 15,
		starts: starts,
	}
}

func (m PlanModel) Init() tea.Cmd {
	return nil
}

func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.Tab == viewSegments {
				m.Tab = viewLevels
			} else {
				m.Tab = viewSegments
			}
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Record.Segments))
		case "end", "G":
			m.move(len(m.Record.Segments))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped to the segment list, and
// scrolls so the cursor stays visible.
func (m *PlanModel) move(delta int) {
	if m.Tab != viewSegments || len(m.Record.Segments) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Record.Segments)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m PlanModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d×%d px · %d segments · image length %d",
		m.Record.Width, m.Record.Height, len(m.Record.Segments), m.Record.ImageLength)))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	if m.Tab == viewLevels {
		b.WriteString(levelTable(m.Levels))
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render("tab segments  q quit"))
		return b.String()
	}

	b.WriteString(m.segmentTable())
	b.WriteString("\n")
	if len(m.Record.Segments) > 0 {
		b.WriteString(m.detail())
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  ↑/↓ navigate  tab levels  q quit",
		m.Cursor+1, len(m.Record.Segments))))
	return b.String()
}

func (m PlanModel) tabs() string {
	seg, lvl := tabInactive, tabInactive
	if m.Tab == viewSegments {
		seg = tabActive
	} else {
		lvl = tabActive
	}
	return seg.Render("Segments") + "  " + lvl.Render("Levels")
}

func (m PlanModel) segmentTable() string {
	end := min(m.Offset+m.Height, len(m.Record.Segments))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Record.Segments[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		title := strconv.FormatInt(s.TitlePadding, 10)
		if s.TitleOmitted {
			title = "—"
		}
		rows = append(rows, []string{
			cursor, s.Name,
			strconv.FormatInt(s.Length, 10),
			strconv.FormatInt(s.ResetPadding, 10),
			title,
			strconv.FormatInt(s.TailPadding, 10),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Segment", "Length", "Reset", "Title", "Tail").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Align(lipgloss.Right)
			}
			if m.Offset+row >= len(m.Record.Segments) {
				return base
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			if m.Record.Segments[m.Offset+row].TitleOmitted {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

// detail describes the selected segment's place in both cursors.
func (m PlanModel) detail() string {
	s := m.Record.Segments[m.Cursor]
	start := m.starts[m.Cursor]
	return fmt.Sprintf("  %s  image %s–%s  text title %s seq %s",
		StyleValue.Render(s.Name),
		StyleNumber.Render(strconv.FormatInt(start, 10)),
		StyleNumber.Render(strconv.FormatInt(start+s.Length, 10)),
		StyleNumber.Render(strconv.FormatInt(s.NucTitleStart, 10)),
		StyleNumber.Render(strconv.FormatInt(s.NucSeqStart, 10)))
}
