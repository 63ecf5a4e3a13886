package render

import (
	"math"
	"regexp"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/fonts"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

var colonSpace = regexp.MustCompile(`([^:]*\S):(\S[^:]*)`)

// PrettyName makes a segment name wrap well: underscores and pipes become
// spaces and a space follows each colon. The result is wrapped to width
// characters and cut to maxLines lines. Narrow titles are hard-wrapped
// into two lines instead.
func PrettyName(name string, width, maxLines int) []string {
	s := strings.NewReplacer("_", " ", "|", " ").Replace(name)
	s = strings.ReplaceAll(s, "chromosome chromosome", "chromosome")
	s = colonSpace.ReplaceAllString(s, "$1: $2")
	s = colonSpace.ReplaceAllString(s, "$1: $2")

	if width < 20 {
		first, rest := s[:min(len(s), width)], s[min(len(s), width):]
		return []string{first, rest[:min(len(rest), width)]}
	}
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		for len(word) > width {
			if cur != "" {
				lines, cur = append(lines, cur), ""
			}
			lines, word = append(lines, word[:width]), word[width:]
		}
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= width:
			cur += " " + word
		default:
			lines, cur = append(lines, cur), word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

// titleStyle is how one title is drawn.
type titleStyle struct {
	size     float64
	width    int // characters per line
	lines    int
	vertical bool
}

// styleFor picks the font size and orientation from the space a title
// occupies: a few lines, a whole column (vertical), a row or a megarow.
func styleFor(plan *tile.Plan, s tile.Segment) titleStyle {
	st := titleStyle{size: fonts.SizeLine, width: 18, lines: 2}
	if plan.Frame.Len() > 2 && s.TitlePadding == plan.Frame.Level(2).ChunkSize {
		st = titleStyle{size: fonts.SizeColumn, width: 50, lines: 2, vertical: true}
	}
	megarow := s.TitlePadding == plan.Options.MegarowLabelSize
	if plan.Frame.Len() > 3 && s.TitlePadding >= plan.Frame.Level(3).ChunkSize {
		st = titleStyle{size: fonts.SizeRow, width: 50, lines: 2}
		megarow = true
	}
	if megarow && len(s.Name) < 24 {
		st = titleStyle{size: fonts.SizeMegarow, width: 25, lines: 2}
	}
	return st
}

// DrawTitles writes each segment's name into its title padding. Titles no
// larger than the skipped-title reservation have no room and are left out.
func (r *Raster) DrawTitles(plan *tile.Plan, pos Positioner) error {
	skip := plan.Options.TitleSkipPadding
	var cursor int64
	for _, s := range plan.Segments {
		cursor += s.ResetPadding
		if s.TitlePadding > skip {
			if err := r.drawTitle(plan, pos, cursor, s); err != nil {
				if !errors.Is(err, errors.ErrCodeOutOfBounds) {
					return err
				}
				r.logger.Warn("title fell off the image", "segment", s.Name, "error", err)
			}
		}
		cursor += s.TitlePadding + s.Length + s.TailPadding
	}
	return nil
}

func (r *Raster) drawTitle(plan *tile.Plan, pos Positioner, cursor int64, s tile.Segment) error {
	ul, err := pos.PositionOnScreen(cursor)
	if err != nil {
		return err
	}
	br, err := pos.PositionOnScreen(cursor + s.TitlePadding - 2)
	if err != nil {
		return err
	}
	st := styleFor(plan, s)
	box := Box{X: ul.X, Y: ul.Y, Width: br.X - ul.X, Height: br.Y - ul.Y}
	return r.DrawText(PrettyName(s.Name, st.width, st.lines), box, st.size, st.vertical)
}

// Box is a pixel rectangle.
type Box struct {
	X, Y, Width, Height int
}

// DrawText writes lines bottom-justified inside box at size points. A
// vertical label reads bottom to top and is nudged 8 pixels right to
// clear the previous column.
func (r *Raster) DrawText(lines []string, box Box, size float64, vertical bool) error {
	if len(lines) == 0 {
		return nil
	}
	face, err := r.face(size)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load title font")
	}

	dc := r.dc
	dc.Push()
	defer dc.Pop()
	dc.SetFontFace(face)
	dc.SetColor(r.text)

	w, h := float64(box.Width), float64(box.Height)
	if vertical {
		dc.Translate(float64(box.X+8), float64(box.Y+box.Height))
		dc.Rotate(gg.Radians(-90))
		w, h = h, w
	} else {
		dc.Translate(float64(box.X), float64(box.Y))
	}
	dc.DrawRectangle(0, 0, math.Abs(w), math.Abs(h))
	dc.Clip()

	lineHeight := dc.FontHeight() * 1.2
	top := max(0, h-lineHeight*float64(len(lines)))
	for i, line := range lines {
		dc.DrawStringAnchored(line, 0, top+lineHeight*float64(i), 0, 1)
	}
	dc.ResetClip()
	return nil
}
