package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqgrid/pkg/cache"
	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/observability"
	"github.com/matzehuels/seqgrid/pkg/render"
	"github.com/matzehuels/seqgrid/pkg/source"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

// Runner runs pipeline steps with caching.
// Both CLI and API use it so plans and images are cached the same way.
//
// The Runner keeps no results of its own; multiple goroutines can share
// one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer uses DefaultKeyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedPlan is the cache form of a tile.Plan. Allocator options hold a
// logger and a hook, so only the fields drawing needs are kept.
type cachedPlan struct {
	Layout           layout.Description `json:"layout"`
	Segments         []tile.Segment     `json:"segments"`
	ImageLength      int64              `json:"image_length"`
	TitleSkipPadding int64              `json:"title_skip_padding"`
	MegarowLabelSize int64              `json:"megarow_label_size"`
}

func encodePlan(p *tile.Plan) ([]byte, error) {
	return json.Marshal(cachedPlan{
		Layout:           p.Frame.Description(),
		Segments:         p.Segments,
		ImageLength:      p.ImageLength,
		TitleSkipPadding: p.Options.TitleSkipPadding,
		MegarowLabelSize: p.Options.MegarowLabelSize,
	})
}

func decodePlan(data []byte, opts tile.Options) (*tile.Plan, error) {
	var c cachedPlan
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode cached plan")
	}
	f, err := layout.FromDescription(c.Layout)
	if err != nil {
		return nil, err
	}
	opts.TitleSkipPadding = c.TitleSkipPadding
	opts.MegarowLabelSize = c.MegarowLabelSize
	return &tile.Plan{Frame: f, Segments: c.Segments, ImageLength: c.ImageLength, Options: opts}, nil
}

// segmentsHash keys a segment list by names and lengths, in order.
func segmentsHash(segments []tile.Segment) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, s := range segments {
		_ = enc.Encode([2]any{s.Name, s.Length})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// sequenceHash keys the residues drawn for a plan.
func sequenceHash(contigs []source.Contig) string {
	h := sha256.New()
	for _, c := range contigs {
		fmt.Fprintf(h, ">%s %d\n", c.Name, len(c.Seq))
		h.Write(c.Seq)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Plan allocates padding for segments on the tiled frame, using the cache
// unless opts.Refresh is set.
func (r *Runner) Plan(ctx context.Context, segments []tile.Segment, opts Options) (*tile.Plan, error) {
	plan, _, err := r.PlanWithCacheInfo(ctx, segments, opts)
	return plan, err
}

// PlanWithCacheInfo is Plan that also reports whether the cache served it.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, segments []tile.Segment, opts Options) (*tile.Plan, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	key := r.Keyer.PlanKey(segmentsHash(segments), opts.PlanKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if plan, err := decodePlan(data, opts.TileOptions()); err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				return plan, true, nil
			}
			// Undecodable entries fall through and are overwritten.
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	frame, err := opts.Frame()
	if err != nil {
		return nil, false, err
	}
	start := time.Now()
	observability.Layout().OnAllocateStart(ctx, ModeTile, len(segments))
	plan, err := tile.Allocate(ctx, frame, segments, opts.TileOptions())
	if err == nil {
		err = plan.Verify()
	}
	var imageLength int64
	if plan != nil {
		imageLength = plan.ImageLength
	}
	observability.Layout().OnAllocateComplete(ctx, ModeTile, imageLength, time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("allocate: %w", err)
	}
	w, h := plan.MaxDimensions()
	r.Logger.Info("allocated layout",
		"segments", len(plan.Segments),
		"image_length", plan.ImageLength,
		"width", w, "height", h,
		"duration", time.Since(start))

	if data, err := encodePlan(plan); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLPlan); err != nil {
			r.Logger.Warn("cache plan", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}
	return plan, false, nil
}

// Render draws plan with the residues of contigs and returns a PNG.
// Segments without sequence are left blank. Images are cached by plan,
// palette, titles and sequence content.
func (r *Runner) Render(ctx context.Context, plan *tile.Plan, contigs []source.Contig, opts Options) ([]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	planData, err := encodePlan(plan)
	if err != nil {
		return nil, fmt.Errorf("serialize plan for cache key: %w", err)
	}
	key := r.Keyer.ArtifactKey(cache.Hash(planData), opts.ArtifactKeyOpts(sequenceHash(contigs)))
	if data, ok := r.cached(ctx, key, opts); ok {
		return data, nil
	}

	w, h := plan.MaxDimensions()
	raster, err := r.newRaster(w, h, opts)
	if err != nil {
		return nil, err
	}
	if err := raster.DrawPlan(ctx, plan, plan.Frame, sequences(contigs)); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if !opts.NoTitles {
		if err := raster.DrawTitles(plan, plan.Frame); err != nil {
			return nil, fmt.Errorf("render titles: %w", err)
		}
	}
	return r.encode(ctx, key, raster)
}

// sequences indexes residues by contig name, skipping header-only contigs.
func sequences(contigs []source.Contig) map[string][]byte {
	m := make(map[string][]byte, len(contigs))
	for _, c := range contigs {
		if c.HasSequence() {
			m[c.Name] = c.Seq
		}
	}
	return m
}

func (r *Runner) cached(ctx context.Context, key string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return data, true
}

func (r *Runner) newRaster(w, h int, opts Options) (*render.Raster, error) {
	palette, err := render.NewPalette(opts.Palette)
	if err != nil {
		return nil, err
	}
	return render.NewRaster(w, h, render.Options{Palette: palette, Logger: opts.Logger})
}

func (r *Runner) encode(ctx context.Context, key string, raster *render.Raster) ([]byte, error) {
	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	data := buf.Bytes()
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache image", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
