package tile

import (
	"context"
	"math"
	"sort"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
)

// SpacingLimit is the number of segments described by Plan.Spacing.
const SpacingLimit = 1001

// Segment is one named, contiguous run of sequence laid out as a block.
// Name and Length are inputs; every other field is written by Allocate.
type Segment struct {
	Name   string `json:"name" bson:"name"`
	Length int64  `json:"length" bson:"length"`

	ResetPadding  int64 `json:"reset_padding" bson:"reset_padding"`
	TitlePadding  int64 `json:"title_padding" bson:"title_padding"`
	TailPadding   int64 `json:"tail_padding" bson:"tail_padding"`
	NucTitleStart int64 `json:"nuc_title_start" bson:"nuc_title_start"`
	NucSeqStart   int64 `json:"nuc_seq_start" bson:"nuc_seq_start"`
	TitleOmitted  bool  `json:"title_omitted,omitempty" bson:"title_omitted,omitempty"`
}

// TitleLength is the number of characters the segment's header occupies in
// the text stream (name plus one separator).
func (s Segment) TitleLength() int64 { return int64(len(s.Name)) + 1 }

// Plan is the result of allocating padding for an ordered list of segments.
type Plan struct {
	Frame       *layout.Frame
	Segments    []Segment
	ImageLength int64 // image cursor after the last segment
	Options     Options
}

// Allocate computes padding for every segment and returns the finished plan.
//
// The input slice is not modified. Segments are copied, optionally sorted
// longest first, and (unless opts.CustomLayout is set) the frame is rebuilt
// with enough rows for the largest segment before any padding is computed.
// Degenerate segments are logged and laid out without a title.
func Allocate(ctx context.Context, f *layout.Frame, segments []Segment, opts Options) (*Plan, error) {
	if len(segments) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no segments to lay out")
	}
	for _, s := range segments {
		if s.Length < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "segment %q: negative length %d", s.Name, s.Length)
		}
	}
	opts.setDefaults(f)
	logger := opts.Logger

	segs := make([]Segment, len(segments))
	copy(segs, segments)

	if len(segs) > opts.ManySegmentsThreshold {
		logger.Warn("many segments: titles for small segments will not be drawn",
			"segments", len(segs), "threshold", opts.ManySegmentsThreshold)
		opts.SkipSmallTitles = true
		opts.SortBySize = true
	}
	if opts.SortBySize {
		logger.Debug("sorting segments by length")
		sort.SliceStable(segs, func(i, j int) bool { return segs[i].Length > segs[j].Length })
	}

	if !opts.CustomLayout {
		rebuilt, err := fitHeight(f, segs, opts.MegarowLabelSize)
		if err != nil {
			return nil, err
		}
		logger.Debug("set layout height", "megarows", rebuilt.Level(3).Modulo)
		f = rebuilt
	}

	alloc := &Allocator{frame: f, opts: opts}
	var total, text int64
	for i := range segs {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		s := &segs[i]
		p, err := alloc.CalcPadding(total, s.Length)
		if err != nil {
			if !errors.Is(err, errors.ErrCodeDegenerate) {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "segment %q", s.Name)
			}
			logger.Warn(errors.UserMessage(err), "segment", s.Name, "length", s.Length)
		}

		s.ResetPadding = p.Reset
		s.TitlePadding = p.Title
		s.TailPadding = p.Tail
		s.TitleOmitted = p.TitleOmitted
		s.NucTitleStart = text
		s.NucSeqStart = text + s.TitleLength()

		total += p.Sum() + s.Length
		text += s.TitleLength() + s.Length
	}

	if total > f.Capacity() {
		logger.Warn("layout exceeds addressable range; trailing positions will not be drawn",
			"length", total, "capacity", f.Capacity())
	}

	return &Plan{Frame: f, Segments: segs, ImageLength: total, Options: opts}, nil
}

// fitHeight rebuilds f so its row-in-tile level holds the largest segment
// plus one title row. Assemblies of many small contigs whose image would be
// very wide are laid out roughly square instead.
func fitHeight(f *layout.Frame, segs []Segment, megarowLabel int64) (*layout.Frame, error) {
	if f.Len() < 4 {
		return f, nil
	}
	var sum, biggest int64
	for _, s := range segs {
		sum += s.Length
		biggest = max(biggest, s.Length)
	}
	rows := ceilDiv(biggest, megarowLabel)
	rowHeight := f.Level(1).Modulo
	if rows > 0 {
		aspect := float64(sum) / math.Pow(float64(rows*rowHeight), 2)
		if aspect > 6 {
			rows = int64(math.Ceil(math.Sqrt(float64(sum)) / float64(rowHeight)))
		}
	}
	rows++

	mods := f.Modulos()
	mods[3] = rows
	return f.Rebuild(mods)
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// MaxDimensions returns the canvas size needed to draw the plan.
func (p *Plan) MaxDimensions() (width, height int) {
	return p.Frame.MaxDimensions(p.ImageLength)
}

// SeqStart returns the image cursor where segment i's body begins.
func (p *Plan) SeqStart(i int) int64 {
	var cursor int64
	for j := 0; j < i; j++ {
		s := p.Segments[j]
		cursor += s.ResetPadding + s.TitlePadding + s.Length + s.TailPadding
	}
	s := p.Segments[i]
	return cursor + s.ResetPadding + s.TitlePadding
}

// SegmentSpacing locates one segment in both the image and the text stream.
type SegmentSpacing struct {
	Name          string `json:"name" bson:"name"`
	XYSeqStart    int64  `json:"xy_seq_start" bson:"xy_seq_start"`
	XYSeqEnd      int64  `json:"xy_seq_end" bson:"xy_seq_end"`
	TitlePadding  int64  `json:"title_padding" bson:"title_padding"`
	TailPadding   int64  `json:"tail_padding" bson:"tail_padding"`
	XYTitleStart  int64  `json:"xy_title_start" bson:"xy_title_start"`
	NucTitleStart int64  `json:"nuc_title_start" bson:"nuc_title_start"`
	NucSeqStart   int64  `json:"nuc_seq_start" bson:"nuc_seq_start"`
}

// Spacing describes the first SpacingLimit segments for viewers.
func (p *Plan) Spacing() []SegmentSpacing {
	n := min(len(p.Segments), SpacingLimit)
	out := make([]SegmentSpacing, 0, n)
	var cursor int64
	for _, s := range p.Segments[:n] {
		cursor += s.ResetPadding + s.TitlePadding
		out = append(out, SegmentSpacing{
			Name:          s.Name,
			XYSeqStart:    cursor,
			XYSeqEnd:      cursor + s.Length,
			TitlePadding:  s.TitlePadding,
			TailPadding:   s.TailPadding,
			XYTitleStart:  cursor - s.TitlePadding,
			NucTitleStart: s.NucTitleStart,
			NucSeqStart:   s.NucSeqStart,
		})
		cursor += s.Length + s.TailPadding
	}
	return out
}
