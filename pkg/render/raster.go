package render

import (
	"context"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/fonts"
	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/observability"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

// MaxPixels bounds the canvas. Larger layouts must be split or drawn at a
// smaller base width.
const MaxPixels = 1 << 31

// Positioner maps a logical index to an absolute pixel.
type Positioner interface {
	PositionOnScreen(progress int64) (layout.Point, error)
}

// Options configures a Raster.
type Options struct {
	Palette    *Palette    // default: classic
	Background color.Color // default: white
	TextColor  color.Color // default: black
	Logger     *log.Logger
}

// Raster is an RGBA canvas that sequence and titles are drawn onto.
// A Raster is not safe for concurrent use.
type Raster struct {
	img     *image.RGBA
	dc      *gg.Context
	palette *Palette
	text    color.Color
	logger  *log.Logger
	faces   map[float64]font.Face
}

// NewRaster allocates a width x height canvas filled with the background.
func NewRaster(width, height int, opts Options) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "canvas %dx%d must be positive", width, height)
	}
	if int64(width)*int64(height) > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"canvas %dx%d exceeds %d pixels; use a smaller base width", width, height, int64(MaxPixels))
	}
	if opts.Palette == nil {
		opts.Palette = DefaultPalette()
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.TextColor == nil {
		opts.TextColor = color.Black
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(opts.Background)
	dc.Clear()
	return &Raster{
		img:     img,
		dc:      dc,
		palette: opts.Palette,
		text:    opts.TextColor,
		logger:  opts.Logger,
		faces:   make(map[float64]font.Face),
	}, nil
}

// Image returns the canvas.
func (r *Raster) Image() *image.RGBA { return r.img }

// Bounds returns the canvas size.
func (r *Raster) Bounds() (width, height int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// DrawSegment draws seq starting at logical index start. The sequence is
// walked in runs that end on multiples of lineWidth: the first residue of
// a run is placed with pos and the rest continue to the right, which is
// how the tiled frame lays out a line. Pass lineWidth 1 for layouts such as curves
// whose neighbours are not horizontal.
//
// When pos reports an index outside the layout the segment stops and the
// bounds error is returned with the number of residues drawn; following
// segments are unaffected.
func (r *Raster) DrawSegment(pos Positioner, start int64, seq []byte, lineWidth int64) (int64, error) {
	if lineWidth <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "line width %d must be positive", lineWidth)
	}
	n := int64(len(seq))
	w, h := r.Bounds()
	for cx := int64(0); cx < n; {
		p, err := pos.PositionOnScreen(start + cx)
		if err != nil {
			return cx, err
		}
		run := min(lineWidth-(start+cx)%lineWidth, n-cx)
		if p.Y < 0 || p.Y >= h || p.X < 0 || int64(p.X)+run > int64(w) {
			return cx, errors.New(errors.ErrCodeOutOfBounds,
				"index %d at pixel (%d,%d) falls off the %dx%d canvas", start+cx, p.X, p.Y, w, h)
		}
		off := r.img.PixOffset(p.X, p.Y)
		for i := int64(0); i < run; i++ {
			c := r.palette.colors[seq[cx+i]]
			px := r.img.Pix[off : off+4 : off+4]
			px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
			off += 4
		}
		cx += run
	}
	return n, nil
}

// DrawPlan draws the residues of every segment of plan. seqs maps segment
// names to residues; segments without sequence are left blank. A segment
// that runs off the layout is logged and skipped.
func (r *Raster) DrawPlan(ctx context.Context, plan *tile.Plan, pos Positioner, seqs map[string][]byte) (err error) {
	w, h := r.Bounds()
	start := time.Now()
	observability.Layout().OnRenderStart(ctx, w, h)
	defer func() {
		observability.Layout().OnRenderComplete(ctx, w, h, time.Since(start), err)
	}()

	lineWidth := plan.Frame.BaseWidth()
	column := plan.Frame.PackedCoordinates()
	var cursor int64
	for i, s := range plan.Segments {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cursor += s.ResetPadding + s.TitlePadding
		if seq, ok := seqs[s.Name]; ok {
			if int64(len(seq)) != s.Length {
				r.logger.Warn("sequence length differs from plan",
					"segment", s.Name, "plan", s.Length, "sequence", len(seq))
				seq = seq[:min(int64(len(seq)), s.Length)]
			}
			if drawn, err := r.drawPacked(pos, cursor, seq, lineWidth, column); err != nil {
				if !errors.Is(err, errors.ErrCodeOutOfBounds) {
					return err
				}
				r.logger.Warn("segment fell off the image", "segment", s.Name, "drawn", drawn, "error", err)
			}
		}
		cursor += s.Length + s.TailPadding
		r.logger.Debug("drew segment", "segment", s.Name, "progress", cursor, "of", plan.ImageLength)
	}
	return nil
}

// drawPacked draws seq like DrawSegment, but every whole column that starts
// on a column boundary is placed with a single position lookup and the
// column template. pos must be a tiled frame whose columns match column.
func (r *Raster) drawPacked(pos Positioner, start int64, seq []byte, lineWidth int64, column []layout.PackedCoordinate) (int64, error) {
	size := int64(len(column))
	n := int64(len(seq))
	var cx int64
	if lead := min((size-start%size)%size, n); lead > 0 {
		drawn, err := r.DrawSegment(pos, start, seq[:lead], lineWidth)
		if err != nil {
			return drawn, err
		}
		cx = lead
	}

	w, h := r.Bounds()
	last := column[size-1]
	for ; n-cx >= size; cx += size {
		p, err := pos.PositionOnScreen(start + cx)
		if err != nil {
			return cx, err
		}
		if p.X < 0 || p.Y < 0 || p.X+last.X >= w || p.Y+last.Y >= h {
			return cx, errors.New(errors.ErrCodeOutOfBounds,
				"column at index %d, pixel (%d,%d) falls off the %dx%d canvas", start+cx, p.X, p.Y, w, h)
		}
		for _, pc := range column {
			c := r.palette.colors[seq[cx+pc.Offset]]
			off := r.img.PixOffset(p.X+pc.X, p.Y+pc.Y)
			px := r.img.Pix[off : off+4 : off+4]
			px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
		}
	}

	if cx < n {
		drawn, err := r.DrawSegment(pos, start+cx, seq[cx:], lineWidth)
		return cx + drawn, err
	}
	return n, nil
}

// face returns the title face at size, loading it on first use.
func (r *Raster) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := fonts.Face(size)
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

// EncodePNG writes the canvas as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}
