package tile

import (
	"fmt"

	"github.com/biogo/store/interval"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

// claim is the half-open range of image positions one segment reserves,
// from the start of its reset padding to the end of its tail.
type claim struct {
	Start, End int
	UID        uintptr
}

func (c claim) Overlap(b interval.IntRange) bool {
	return c.End > b.Start && c.Start < b.End
}

func (c claim) ID() uintptr { return c.UID }

func (c claim) Range() interval.IntRange {
	return interval.IntRange{Start: c.Start, End: c.End}
}

func (c claim) String() string {
	return fmt.Sprintf("[%d,%d)#%d", c.Start, c.End, c.UID)
}

// Verify checks the plan's arithmetic after the fact: no padding is
// negative, the text cursor advances by title plus body for every segment,
// the image cursor sums to ImageLength, and no two segments claim
// overlapping image ranges.
func (p *Plan) Verify() error {
	var tree interval.IntTree
	claims := make([]claim, 0, len(p.Segments))

	var cursor, text int64
	for i, s := range p.Segments {
		if s.ResetPadding < 0 || s.TitlePadding < 0 || s.TailPadding < 0 {
			return errors.New(errors.ErrCodeInternal, "segment %q: negative padding", s.Name)
		}
		if s.Length < 0 || s.NucTitleStart < 0 {
			return errors.New(errors.ErrCodeInternal, "segment %q: negative length or text start", s.Name)
		}
		if s.NucTitleStart != text || s.NucSeqStart != text+s.TitleLength() {
			return errors.New(errors.ErrCodeInternal,
				"segment %q: text cursor %d/%d, want %d/%d",
				s.Name, s.NucTitleStart, s.NucSeqStart, text, text+s.TitleLength())
		}
		span := s.ResetPadding + s.TitlePadding + s.Length + s.TailPadding
		if span > 0 {
			c := claim{Start: int(cursor), End: int(cursor + span), UID: uintptr(i)}
			if err := tree.Insert(c, true); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "segment %q", s.Name)
			}
			claims = append(claims, c)
		}
		cursor += span
		text += s.TitleLength() + s.Length
	}
	tree.AdjustRanges()

	if cursor != p.ImageLength {
		return errors.New(errors.ErrCodeInternal, "segments span %d positions, plan records %d", cursor, p.ImageLength)
	}
	for _, c := range claims {
		for _, hit := range tree.Get(c) {
			if hit.ID() != c.UID {
				a, b := p.Segments[c.UID], p.Segments[hit.ID()]
				return errors.New(errors.ErrCodeInternal,
					"segments %q %v and %q %v overlap", a.Name, c, b.Name, hit)
			}
		}
	}
	return nil
}
