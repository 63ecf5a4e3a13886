package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/seqgrid/pkg/cache"
	"github.com/matzehuels/seqgrid/pkg/curve"
	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/observability"
	"github.com/matzehuels/seqgrid/pkg/source"
)

// CurveResult is a sequence drawn along a space-filling curve.
type CurveResult struct {
	Curve     *curve.Curve
	Image     []byte
	Truncated bool // the sequence was longer than the curve
	CacheHit  bool
}

// Curve lays contig along the configured curve and draws it. The curve is
// always rebuilt, since callers need its points; only the image is cached.
func (r *Runner) Curve(ctx context.Context, contig source.Contig, opts Options) (*CurveResult, error) {
	r.applyLogger(&opts)
	opts.Mode = ModeCurve
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if !contig.HasSequence() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "contig %q has no sequence to draw", contig.Name)
	}

	inset := int(opts.BorderWidth)
	c, err := curve.New(opts.XRadices, opts.YRadices,
		curve.WithGap(opts.Gap), curve.WithOrigin(layout.Point{X: inset, Y: inset}))
	if err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Layout().OnAllocateStart(ctx, ModeCurve, 1)
	err = c.Build(int64(len(contig.Seq)))
	observability.Layout().OnAllocateComplete(ctx, ModeCurve, int64(c.Len()), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("build curve: %w", err)
	}
	res := &CurveResult{Curve: c, Truncated: int64(len(contig.Seq)) > c.Capacity()}
	if res.Truncated {
		opts.Logger.Warn("sequence is longer than the curve; the tail is not drawn",
			"contig", contig.Name, "length", len(contig.Seq), "capacity", c.Capacity())
	}

	params, _ := json.Marshal(struct {
		X, Y        []int
		Gap, Border int
		Points      int
	}{opts.XRadices, opts.YRadices, opts.Gap, inset, c.Len()})
	key := r.Keyer.ArtifactKey(cache.Hash(params), opts.ArtifactKeyOpts(sequenceHash([]source.Contig{contig})))
	if data, ok := r.cached(ctx, key, opts); ok {
		res.Image, res.CacheHit = data, true
		return res, nil
	}

	w, h := c.MaxDimensions()
	raster, err := r.newRaster(w, h, opts)
	if err != nil {
		return nil, err
	}
	start = time.Now()
	observability.Layout().OnRenderStart(ctx, w, h)
	drawn, err := raster.DrawSegment(c, 0, contig.Seq[:c.Len()], 1)
	observability.Layout().OnRenderComplete(ctx, w, h, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render curve after %d residues: %w", drawn, err)
	}
	r.Logger.Info("drew curve", "contig", contig.Name, "points", c.Len(), "width", w, "height", h)

	if res.Image, err = r.encode(ctx, key, raster); err != nil {
		return nil, err
	}
	return res, nil
}
