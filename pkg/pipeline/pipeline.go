// Package pipeline runs the read → allocate → draw steps shared by the CLI
// and the HTTP server.
//
// By centralizing this logic, every entry point gets the same defaults,
// validation and caching. The three layout modes are:
//
//  1. Tile: the default hierarchy of lines, columns, rows and tiles, with
//     padding and titles allocated per segment
//  2. Curve: one sequence along a space-filling curve
//  3. Parallel: several genomes interleaved column by column
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	contigs, err := pipeline.Read(ctx, "hg38.fa.gz", nil)
//	if err != nil {
//	    return err
//	}
//	opts := pipeline.Options{Palette: "natural"}
//	plan, err := runner.Plan(ctx, source.Segments(contigs), opts)
//	if err != nil {
//	    return err
//	}
//	png, err := runner.Render(ctx, plan, contigs, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqgrid/pkg/cache"
	"github.com/matzehuels/seqgrid/pkg/config"
	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/render"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

// Layout modes.
const (
	ModeTile     = "tile"
	ModeCurve    = "curve"
	ModeParallel = "parallel"
)

// Defaults shared by the CLI and the server.
const (
	DefaultMode    = ModeTile
	DefaultPalette = "classic"
)

// ValidModes is the set of supported layout modes.
var ValidModes = map[string]bool{
	ModeTile:     true,
	ModeCurve:    true,
	ModeParallel: true,
}

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	Mode string `json:"mode,omitempty"`

	// Tiled layout
	BaseWidth             int64  `json:"base_width,omitempty"`
	BorderWidth           int64  `json:"border_width,omitempty"`
	CustomLayout          string `json:"custom_layout,omitempty"` // "([modulos],[paddings])"
	NoTitles              bool   `json:"no_titles,omitempty"`
	SkipSmallTitles       bool   `json:"skip_small_titles,omitempty"`
	SortBySize            bool   `json:"sort_by_size,omitempty"`
	SmallTitleThreshold   int64  `json:"small_title_threshold,omitempty"`
	ManySegmentsThreshold int    `json:"many_segments_threshold,omitempty"`

	// Curve
	XRadices []int `json:"x_radices,omitempty"`
	YRadices []int `json:"y_radices,omitempty"`
	Gap      int   `json:"gap,omitempty"`

	// Parallel: one line width per genome; empty uses BaseWidth.
	ColumnWidths []int64 `json:"column_widths,omitempty"`

	// Rendering
	Palette string `json:"palette,omitempty"`

	Refresh bool `json:"refresh,omitempty"` // bypass cached plans and images

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// FromConfig returns options carrying the file configuration. Callers
// override individual fields afterwards, as the CLI does with flags.
func FromConfig(c config.Config) Options {
	return Options{
		BaseWidth:             c.Layout.BaseWidth,
		BorderWidth:           c.Layout.BorderWidth,
		CustomLayout:          c.Layout.Custom,
		NoTitles:              c.Layout.NoTitles || !c.Render.Titles,
		SkipSmallTitles:       c.Layout.SkipSmallTitles,
		SortBySize:            c.Layout.SortBySize,
		SmallTitleThreshold:   c.Layout.SmallTitleThreshold,
		ManySegmentsThreshold: c.Layout.ManySegmentsThreshold,
		XRadices:              append([]int(nil), c.Curve.XRadices...),
		YRadices:              append([]int(nil), c.Curve.YRadices...),
		Gap:                   c.Curve.Gap,
		Palette:               c.Render.Palette,
	}
}

// Stats records how long each step took.
type Stats struct {
	Segments     int
	ReadTime     time.Duration
	AllocateTime time.Duration
	RenderTime   time.Duration
}

// ValidateMode checks that a mode is known.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid mode %q (must be one of: tile, curve, parallel)", mode)
	}
	return nil
}

// ValidatePalette checks that a palette exists.
func ValidatePalette(name string) error {
	_, err := render.NewPalette(name)
	return err
}

// ValidateAndSetDefaults checks every option and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills the layout fields left at zero.
func (o *Options) SetLayoutDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.BaseWidth == 0 {
		o.BaseWidth = layout.DefaultBaseWidth
	}
	if o.BorderWidth == 0 {
		o.BorderWidth = layout.DefaultBorderWidth
	}
	if o.SmallTitleThreshold == 0 {
		o.SmallTitleThreshold = tile.DefaultSmallTitleThreshold
	}
	if o.ManySegmentsThreshold == 0 {
		o.ManySegmentsThreshold = tile.DefaultManySegmentsThreshold
	}
	if len(o.XRadices) == 0 {
		o.XRadices = config.Default().Curve.XRadices
	}
	if len(o.YRadices) == 0 {
		o.YRadices = config.Default().Curve.YRadices
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and checks the layout fields.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.BaseWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "base width %d must be positive", o.BaseWidth)
	}
	if o.BorderWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "border width %d must not be negative", o.BorderWidth)
	}
	if o.CustomLayout != "" {
		if o.Mode != ModeTile {
			return errors.New(errors.ErrCodeInvalidConfig, "a custom layout applies to tile mode only")
		}
		if _, _, err := layout.ParseCustomLayout(o.CustomLayout); err != nil {
			return err
		}
	}
	for _, w := range o.ColumnWidths {
		if w <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "column width %d must be positive", w)
		}
	}
	return nil
}

// SetRenderDefaults fills the render fields left at zero.
func (o *Options) SetRenderDefaults() {
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and checks the palette.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidatePalette(o.Palette)
}

// Frame builds the tiled frame: the custom hierarchy when one is set,
// otherwise the default hierarchy inset by the border.
func (o *Options) Frame() (*layout.Frame, error) {
	if o.CustomLayout == "" {
		return layout.DefaultFrame(o.BaseWidth, o.BorderWidth)
	}
	mods, pads, err := layout.ParseCustomLayout(o.CustomLayout)
	if err != nil {
		return nil, err
	}
	inset := int(o.BorderWidth)
	return layout.NewFrame(mods, pads, layout.Point{X: inset, Y: inset})
}

// TileOptions returns the allocator options.
func (o *Options) TileOptions() tile.Options {
	return tile.Options{
		NoTitles:              o.NoTitles,
		SkipSmallTitles:       o.SkipSmallTitles,
		SortBySize:            o.SortBySize,
		CustomLayout:          o.CustomLayout != "",
		SmallTitleThreshold:   o.SmallTitleThreshold,
		ManySegmentsThreshold: o.ManySegmentsThreshold,
		Logger:                o.Logger,
	}
}

// PlanKeyOpts returns cache key options for allocation.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	k := cache.PlanKeyOpts{
		Mode:            o.Mode,
		BaseWidth:       o.BaseWidth,
		BorderWidth:     o.BorderWidth,
		NoTitles:        o.NoTitles,
		SkipSmallTitles: o.SkipSmallTitles,
		SortBySize:      o.SortBySize,
		SmallTitles:     o.SmallTitleThreshold,
		ManySegments:    o.ManySegmentsThreshold,
		ColumnWidths:    o.ColumnWidths,
	}
	if o.CustomLayout != "" {
		k.Modulos, k.Paddings, _ = layout.ParseCustomLayout(o.CustomLayout)
	}
	return k
}

// ArtifactKeyOpts returns cache key options for a rendered image.
func (o *Options) ArtifactKeyOpts(sequenceHash string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   "png",
		Palette:  o.Palette,
		Titles:   !o.NoTitles,
		Sequence: sequenceHash,
	}
}
