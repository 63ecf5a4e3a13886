package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/fonts"
	"github.com/matzehuels/seqgrid/pkg/observability"
	"github.com/matzehuels/seqgrid/pkg/parallel"
	"github.com/matzehuels/seqgrid/pkg/render"
	"github.com/matzehuels/seqgrid/pkg/source"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

// Genome is one track of a parallel layout.
type Genome struct {
	Name    string
	Contigs []source.Contig
}

// ParallelResult is several genomes drawn side by side.
type ParallelResult struct {
	Layout   *parallel.Layout
	Plans    []*tile.Plan // one per genome, in input order
	Image    []byte
	CacheHit bool
}

// Parallel allocates every genome on its own track and draws them
// interleaved column by column, with each genome's name over its first
// column.
func (r *Runner) Parallel(ctx context.Context, genomes []Genome, opts Options) (*ParallelResult, error) {
	r.applyLogger(&opts)
	opts.Mode = ModeParallel
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if len(opts.ColumnWidths) > 0 && len(opts.ColumnWidths) != len(genomes) {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%d column widths given for %d genomes", len(opts.ColumnWidths), len(genomes))
	}

	l, err := parallel.New(len(genomes), opts.BaseWidth, opts.ColumnWidths)
	if err != nil {
		return nil, err
	}
	segments := make([][]tile.Segment, len(genomes))
	total := 0
	for i, g := range genomes {
		segments[i] = source.Segments(g.Contigs)
		total += len(segments[i])
	}

	start := time.Now()
	observability.Layout().OnAllocateStart(ctx, ModeParallel, total)
	plans, err := l.AllocateAll(ctx, segments, opts.TileOptions())
	var imageLength int64
	for _, p := range plans {
		imageLength = max(imageLength, p.ImageLength)
	}
	observability.Layout().OnAllocateComplete(ctx, ModeParallel, imageLength, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("allocate: %w", err)
	}
	res := &ParallelResult{Layout: l, Plans: plans}

	h := sha256.New()
	for i, p := range plans {
		data, err := encodePlan(p)
		if err != nil {
			return nil, fmt.Errorf("serialize plan %d for cache key: %w", i, err)
		}
		fmt.Fprintf(h, "%s\n", genomes[i].Name)
		h.Write(data)
	}
	var all []source.Contig
	for _, g := range genomes {
		all = append(all, g.Contigs...)
	}
	key := r.Keyer.ArtifactKey(hex.EncodeToString(h.Sum(nil)), opts.ArtifactKeyOpts(sequenceHash(all)))
	if data, ok := r.cached(ctx, key, opts); ok {
		res.Image, res.CacheHit = data, true
		return res, nil
	}

	w, ht := l.MaxDimensions(plans)
	raster, err := r.newRaster(w, ht, opts)
	if err != nil {
		return nil, err
	}
	for i, g := range genomes {
		if err := raster.DrawPlan(ctx, plans[i], l.Track(i), sequences(g.Contigs)); err != nil {
			return nil, fmt.Errorf("render %s: %w", g.Name, err)
		}
	}
	if !opts.NoTitles {
		if err := drawHeaders(raster, l, genomes); err != nil {
			return nil, err
		}
	}
	r.Logger.Info("drew parallel genomes", "genomes", len(genomes), "width", w, "height", ht)

	if res.Image, err = r.encode(ctx, key, raster); err != nil {
		return nil, err
	}
	return res, nil
}

// drawHeaders writes each genome's name vertically in the title row above
// its first column.
func drawHeaders(raster *render.Raster, l *parallel.Layout, genomes []Genome) error {
	for i, g := range genomes {
		f := l.Frame(i)
		origin := f.Origin()
		box := render.Box{
			X:      origin.X + l.ColumnOffset(i),
			Y:      origin.Y - int(f.Level(3).Thickness),
			Width:  int(f.BaseWidth()),
			Height: int(f.Level(3).Thickness) - origin.X,
		}
		if err := raster.DrawText(render.PrettyName(g.Name, 50, 2), box, fonts.SizeColumn, true); err != nil {
			return fmt.Errorf("header %s: %w", g.Name, err)
		}
	}
	return nil
}
