package tile

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
)

// Defaults used when the corresponding Options field is zero.
const (
	// DefaultSmallTitleThreshold is the segment length below which titles
	// are skipped when SkipSmallTitles is set.
	DefaultSmallTitleThreshold int64 = 10_000

	// DefaultManySegmentsThreshold is the segment count above which small
	// titles are skipped and sorting is forced.
	DefaultManySegmentsThreshold = 10_000

	// labelGapLines is the line count of the smallest readable label:
	// 20px of font height plus 6px of vertical padding.
	labelGapLines int64 = 20 + 6
)

// Padding is the blank space reserved around one segment.
type Padding struct {
	Reset        int64 // before the title, aligning the segment to a boundary
	Title        int64 // reserved for the label
	Tail         int64 // after the body, aligning the next segment
	Level        int   // level whose chunk bounds the segment; -1 when none fits
	TitleOmitted bool  // no label will be drawn
}

// Sum returns Reset + Title + Tail.
func (p Padding) Sum() int64 { return p.Reset + p.Title + p.Tail }

// Adjuster rewrites a computed padding. It lets specialised layouts change
// the title policy without reimplementing the level search.
type Adjuster func(total int64, p Padding) Padding

// Options configures an Allocator.
type Options struct {
	// NoTitles reserves no title space. Reset and tail are still reserved.
	NoTitles bool

	// SkipSmallTitles gives segments shorter than SmallTitleThreshold a
	// single-line title reservation (TitleSkipPadding).
	SkipSmallTitles bool

	// SortBySize orders segments longest first before allocation.
	SortBySize bool

	// CustomLayout marks a frame supplied explicitly by the user. Custom
	// frames are never resized and skip the megarow reset rule.
	CustomLayout bool

	// MinLabelGap is the smallest title reservation in positions.
	// Default: 26 lines of BaseWidth.
	MinLabelGap int64

	// TitleSkipPadding is the reservation for skipped titles. Default: one line.
	TitleSkipPadding int64

	// MegarowLabelSize caps title reservations. Default: levels[3].ChunkSize.
	MegarowLabelSize int64

	SmallTitleThreshold   int64
	ManySegmentsThreshold int

	// Adjust, when set, post-processes every computed padding.
	Adjust Adjuster

	Logger *log.Logger
}

func (o *Options) setDefaults(f *layout.Frame) {
	base := f.BaseWidth()
	if o.MinLabelGap <= 0 {
		o.MinLabelGap = labelGapLines * base
	}
	if o.TitleSkipPadding <= 0 {
		o.TitleSkipPadding = base
	}
	if o.MegarowLabelSize <= 0 {
		o.MegarowLabelSize = megarowChunk(f)
	}
	if o.SmallTitleThreshold <= 0 {
		o.SmallTitleThreshold = DefaultSmallTitleThreshold
	}
	if o.ManySegmentsThreshold <= 0 {
		o.ManySegmentsThreshold = DefaultManySegmentsThreshold
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// megarowChunk is the chunk size of the row-in-tile level, or of the top
// level for frames that do not have one.
func megarowChunk(f *layout.Frame) int64 {
	if f.Len() > 3 {
		return f.Level(3).ChunkSize
	}
	return f.Level(f.Len() - 1).ChunkSize
}

// Allocator decides reset, title and tail padding for segments laid out on
// one frame. It holds no state between calls: every result depends only on
// the running cursor and the segment length.
type Allocator struct {
	frame *layout.Frame
	opts  Options
}

// NewAllocator returns an allocator for f. Zero option fields take defaults.
func NewAllocator(f *layout.Frame, opts Options) *Allocator {
	opts.setDefaults(f)
	return &Allocator{frame: f, opts: opts}
}

// Frame returns the frame the allocator works on.
func (a *Allocator) Frame() *layout.Frame { return a.frame }

// Options returns the resolved options.
func (a *Allocator) Options() Options { return a.opts }

// CalcPadding returns the padding for a segment of length positions that
// starts at image cursor total.
//
// The search visits levels from the line level upward and stops at the
// first one whose chunk holds the body plus its title. Chunk sizes grow
// strictly with the level index, so the search ends after at most Len()
// steps. A DEGENERATE error is a warning: the returned Padding is still
// valid and the caller should log and continue. Any other error means the
// arithmetic produced a negative padding.
func (a *Allocator) CalcPadding(total, length int64) (Padding, error) {
	var warn error
	titled := !a.opts.NoTitles
	if length == 0 {
		titled = false
		warn = errors.New(errors.ErrCodeDegenerate, "zero-length segment at %d: title omitted", total)
	}

	p, ok := a.search(total, length, titled)
	if !ok {
		p = Padding{Level: -1, TitleOmitted: true}
		warn = errors.New(errors.ErrCodeDegenerate,
			"segment of length %d does not fit any level: title omitted", length)
	}
	if !titled {
		p.TitleOmitted = true
	}
	if a.opts.Adjust != nil {
		p = a.opts.Adjust(total, p)
	}
	if p.Reset < 0 || p.Title < 0 || p.Tail < 0 {
		return p, errors.New(errors.ErrCodeInternal,
			"negative padding (reset=%d title=%d tail=%d) at %d", p.Reset, p.Title, p.Tail, total)
	}
	return p, warn
}

func (a *Allocator) search(total, length int64, titled bool) (Padding, bool) {
	f := a.frame
	o := &a.opts
	megarow := megarowChunk(f)

	for i := 1; i < f.Len(); i++ {
		current := f.Level(i)
		if length+o.MinLabelGap >= current.ChunkSize {
			continue
		}
		prev, _ := f.Previous(i)

		title := max(o.MinLabelGap, prev.ChunkSize)
		if o.SkipSmallTitles && length < o.SmallTitleThreshold {
			title = o.TitleSkipPadding
		}
		if !titled {
			title = 0
		}
		if title > megarow {
			title = o.MegarowLabelSize
		}
		if length+title > current.ChunkSize {
			// The label pushes the body over this boundary; try the next level.
			continue
		}

		spaceRemaining := current.ChunkSize - total%current.ChunkSize
		resetLevel := current
		if length+title < spaceRemaining {
			resetLevel = prev
		}
		reset := resetLevel.ChunkSize - total%resetLevel.ChunkSize
		if !o.CustomLayout && spaceRemaining > 1 && reset == 1 && length > megarow*2 {
			reset += megarow
		}
		if total == 0 {
			reset = 0
		}
		end := total + title + reset + length
		tail := prev.ChunkSize - end%prev.ChunkSize - 1

		return Padding{Reset: reset, Title: title, Tail: tail, Level: i}, true
	}
	return Padding{}, false
}
