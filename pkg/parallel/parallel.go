// Package parallel interleaves several genomes column by column.
//
// Each genome (track) gets its own [layout.Frame] whose columns are as wide
// as that track's data. The column-in-row padding of every frame is chosen so
// the tracks' columns sit side by side in clusters: column k of genome 0,
// then column k of genome 1 and so on, followed by a wider gap. A constant
// per-track x offset places each genome inside the cluster.
//
// Segment padding is allocated per track with the shared allocator in
// package tile. The first segment of every track carries no title, since
// the image has a single title row naming all genomes.
package parallel

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

const (
	// columnGap is the padding between adjacent tracks inside a cluster.
	columnGap = 6

	// rowWidth is the pixel budget for one row of clusters.
	rowWidth = 10_600
)

// Layout is a set of aligned frames, one per genome.
type Layout struct {
	frames    []*layout.Frame
	offsets   []int
	baseWidth int64
	labelSize int64
}

// New builds frames for nGenomes tracks. columnWidths gives each track's
// line width; nil uses baseWidth for every track.
func New(nGenomes int, baseWidth int64, columnWidths []int64) (*Layout, error) {
	if nGenomes < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "parallel layout needs at least one genome")
	}
	if baseWidth <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "base width %d must be positive", baseWidth)
	}
	if columnWidths == nil {
		columnWidths = make([]int64, nGenomes)
		for i := range columnWidths {
			columnWidths[i] = baseWidth
		}
	}
	if len(columnWidths) != nGenomes {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%d column widths given for %d genomes", len(columnWidths), nGenomes)
	}

	cluster := int64(columnGap*nGenomes + 2*columnGap)
	for i, w := range columnWidths {
		if w <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "track %d: column width %d must be positive", i, w)
		}
		cluster += w
	}
	perRow := rowWidth / cluster
	if perRow < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"columns %d px wide do not fit a %d px row", cluster, rowWidth)
	}

	l := &Layout{
		frames:    make([]*layout.Frame, nGenomes),
		offsets:   make([]int, nGenomes),
		baseWidth: baseWidth,
		// Two default megarows (100 columns of 10*base lines each).
		labelSize: 2 * 100 * 10 * baseWidth * baseWidth,
	}
	offset := 0
	for i, w := range columnWidths {
		mods := []int64{w, 10 * baseWidth, perRow, 10, 3, 4, 999}
		pads := []int64{0, 0, cluster - w + columnGap, 18, 54, 162, 486}
		f, err := layout.NewFrame(mods, pads, layout.Point{})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "track %d", i)
		}
		l.frames[i] = f
		l.offsets[i] = offset
		offset += int(w) + columnGap
	}

	// One row of space for the title above the first row only.
	origin := layout.Point{X: columnGap, Y: int(l.frames[0].Level(3).Thickness) + columnGap}
	for i, f := range l.frames {
		l.frames[i] = f.WithOrigin(origin)
	}
	return l, nil
}

// Tracks returns the number of genomes.
func (l *Layout) Tracks() int { return len(l.frames) }

// Frame returns the frame of one track.
func (l *Layout) Frame(track int) *layout.Frame { return l.frames[track] }

// ColumnOffset returns the x offset of a track inside each cluster.
func (l *Layout) ColumnOffset(track int) int { return l.offsets[track] }

// PositionOnScreen maps a track's logical index to an absolute pixel.
func (l *Layout) PositionOnScreen(track int, progress int64) (layout.Point, error) {
	if track < 0 || track >= len(l.frames) {
		return layout.Point{}, errors.New(errors.ErrCodeInvalidInput, "track %d does not exist", track)
	}
	p, err := l.frames[track].PositionOnScreen(progress)
	if err != nil {
		return layout.Point{}, err
	}
	p.X += l.offsets[track]
	return p, nil
}

// Track returns a positioner bound to one track.
func (l *Layout) Track(track int) TrackPositioner {
	return TrackPositioner{parent: l, track: track}
}

// TrackPositioner adapts one track to the single-frame PositionOnScreen
// signature used by renderers.
type TrackPositioner struct {
	parent *Layout
	track  int
}

// PositionOnScreen maps a logical index of the bound track to a pixel.
func (t TrackPositioner) PositionOnScreen(progress int64) (layout.Point, error) {
	return t.parent.PositionOnScreen(t.track, progress)
}

// TrackOptions returns allocator options for a track layered over base.
// Titles larger than the label size shrink to one column, and the first
// segment's title space is folded into its tail.
func (l *Layout) TrackOptions(track int, base tile.Options) tile.Options {
	opts := base
	// Track frames stay fixed so every track keeps the shared column grid.
	opts.CustomLayout = true
	opts.SortBySize = false
	opts.MegarowLabelSize = l.labelSize
	column := l.frames[track].Level(2).ChunkSize
	label := l.labelSize
	opts.Adjust = func(total int64, p tile.Padding) tile.Padding {
		if p.Title >= label {
			p.Title = column
		}
		if total == 0 {
			p.Tail += p.Title
			p.Title = 0
			p.TitleOmitted = true
		}
		return p
	}
	return opts
}

// AllocateAll allocates padding for every track concurrently. Each worker
// owns its track's frame and allocator; the plans are returned in track
// order.
func (l *Layout) AllocateAll(ctx context.Context, segments [][]tile.Segment, base tile.Options) ([]*tile.Plan, error) {
	if len(segments) != len(l.frames) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%d segment lists given for %d tracks", len(segments), len(l.frames))
	}
	plans := make([]*tile.Plan, len(segments))
	g, ctx := errgroup.WithContext(ctx)
	for i := range segments {
		g.Go(func() error {
			plan, err := tile.Allocate(ctx, l.frames[i], segments[i], l.TrackOptions(i, base))
			if err != nil {
				return fmt.Errorf("track %d: %w", i, err)
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

// MaxDimensions returns the canvas size that holds every plan, including
// each track's column offset.
func (l *Layout) MaxDimensions(plans []*tile.Plan) (width, height int) {
	for i, p := range plans {
		w, h := p.MaxDimensions()
		width = max(width, w+l.offsets[i])
		height = max(height, h)
	}
	return width, height
}

// Description describes the last track, whose origin and offsets a viewer
// uses for mouse-over lookups.
func (l *Layout) Description() layout.Description {
	return l.frames[len(l.frames)-1].Description()
}
