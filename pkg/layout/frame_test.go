package layout

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

func mustDefault(t *testing.T) *Frame {
	t.Helper()
	f, err := DefaultFrame(DefaultBaseWidth, DefaultBorderWidth)
	if err != nil {
		t.Fatalf("DefaultFrame: %v", err)
	}
	return f
}

func TestDefaultFrameLevels(t *testing.T) {
	f := mustDefault(t)

	want := []Level{
		{Modulo: 100, ChunkSize: 1, Padding: 0, Thickness: 1},
		{Modulo: 1000, ChunkSize: 100, Padding: 0, Thickness: 1},
		{Modulo: 100, ChunkSize: 100_000, Padding: 3, Thickness: 103},
		{Modulo: 6, ChunkSize: 10_000_000, Padding: 9, Thickness: 1009},
		{Modulo: 999, ChunkSize: 60_000_000, Padding: 777, Thickness: 11_077},
	}
	if f.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", f.Len(), len(want))
	}
	for i, w := range want {
		if got := f.Level(i); got != w {
			t.Errorf("level %d = %+v, want %+v", i, got, w)
		}
	}
	if got := f.Origin(); got != (Point{X: 3, Y: 3}) {
		t.Errorf("Origin() = %+v, want {3 3}", got)
	}
	if got, want := f.Capacity(), int64(60_000_000*999); got != want {
		t.Errorf("Capacity() = %d, want %d", got, want)
	}
}

func TestNewFrameDerivation(t *testing.T) {
	mods := []int64{7, 5, 4, 3, 2}
	pads := []int64{0, 0, 2, 5, 11}
	f, err := NewFrame(mods, pads, Point{})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	for i := 2; i < f.Len(); i++ {
		prev, _ := f.Previous(i)
		par, _ := f.ParallelLevel(i)
		l := f.Level(i)
		if l.ChunkSize != prev.Modulo*prev.ChunkSize {
			t.Errorf("level %d chunk = %d, want %d", i, l.ChunkSize, prev.Modulo*prev.ChunkSize)
		}
		if l.Thickness != par.Modulo*par.Thickness+l.Padding {
			t.Errorf("level %d thickness = %d, want %d", i, l.Thickness, par.Modulo*par.Thickness+l.Padding)
		}
	}
}

func TestNewFrameDefaultPadding(t *testing.T) {
	f, err := NewFrame([]int64{10, 10, 10, 10, 10}, []int64{0, 0, 2}, Point{})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	if got := f.Level(3).Padding; got != 6 {
		t.Errorf("level 3 padding = %d, want 6", got)
	}
	if got := f.Level(4).Padding; got != 18 {
		t.Errorf("level 4 padding = %d, want 18", got)
	}
}

func TestNewFrameInvalid(t *testing.T) {
	tests := []struct {
		name     string
		modulos  []int64
		paddings []int64
	}{
		{"too few levels", []int64{10}, nil},
		{"zero modulo", []int64{10, 0, 10}, nil},
		{"negative modulo", []int64{10, 10, -3}, nil},
		{"negative padding", []int64{10, 10, 10}, []int64{0, 0, -1}},
		{"too many paddings", []int64{10, 10}, []int64{0, 0, 0}},
		{"capacity overflow", []int64{1 << 20, 1 << 20, 1 << 20, 1 << 20}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrame(tt.modulos, tt.paddings, Point{})
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("NewFrame error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestSetPadding(t *testing.T) {
	l := Level{Modulo: 100, ChunkSize: 100_000, Padding: 3, Thickness: 103}
	if err := l.SetPadding(10); err != nil {
		t.Fatalf("SetPadding: %v", err)
	}
	if l.Thickness != 110 || l.Padding != 10 {
		t.Errorf("after SetPadding(10): %+v", l)
	}

	if err := l.SetPadding(-1); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("SetPadding(-1) error = %v, want INVALID_CONFIG", err)
	}
	if l.Padding != 10 {
		t.Errorf("rejected padding modified level: %+v", l)
	}
}

func TestWithPadding(t *testing.T) {
	f := mustDefault(t)
	g, err := f.WithPadding(2, 13)
	if err != nil {
		t.Fatalf("WithPadding: %v", err)
	}
	if got := g.Level(2).Thickness; got != 113 {
		t.Errorf("thickness = %d, want 113", got)
	}
	if got := g.Level(4).Thickness; got != 100*113+777 {
		t.Errorf("level 4 thickness = %d, want %d", got, 100*113+777)
	}
	if got := f.Level(2).Thickness; got != 103 {
		t.Errorf("original frame mutated: thickness = %d", got)
	}
	if _, err := f.WithPadding(9, 1); err == nil {
		t.Error("WithPadding on missing level should fail")
	}
}

func TestRelativePosition(t *testing.T) {
	f := mustDefault(t)
	tests := []struct {
		progress int64
		want     Point
	}{
		{0, Point{0, 0}},
		{1, Point{1, 0}},
		{99, Point{99, 0}},
		{100, Point{0, 1}},
		{250, Point{50, 2}},
		{100_000, Point{103, 0}},
		{100_000*2 + 100*7 + 5, Point{2*103 + 5, 7}},
		{10_000_000, Point{0, 1009}},
		{60_000_000, Point{11_077, 0}},
	}
	for _, tt := range tests {
		got, err := f.RelativePosition(tt.progress)
		if err != nil {
			t.Fatalf("RelativePosition(%d): %v", tt.progress, err)
		}
		if got != tt.want {
			t.Errorf("RelativePosition(%d) = %+v, want %+v", tt.progress, got, tt.want)
		}
	}
}

func TestPositionOnScreenAddsOrigin(t *testing.T) {
	f := mustDefault(t)
	for _, p := range []int64{0, 1, 12345, 98_765_432} {
		rel, _ := f.RelativePosition(p)
		abs, err := f.PositionOnScreen(p)
		if err != nil {
			t.Fatalf("PositionOnScreen(%d): %v", p, err)
		}
		if abs != rel.Add(f.Origin()) {
			t.Errorf("PositionOnScreen(%d) = %+v, want %+v", p, abs, rel.Add(f.Origin()))
		}
	}
}

func TestRelativePositionBounds(t *testing.T) {
	f, err := NewFrame([]int64{4, 3, 2}, nil, Point{})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	for _, p := range []int64{-1, f.Capacity(), f.Capacity() + 10} {
		_, err := f.RelativePosition(p)
		if !errors.Is(err, errors.ErrCodeOutOfBounds) {
			t.Errorf("RelativePosition(%d) error = %v, want OUT_OF_BOUNDS", p, err)
		}
		var be *errors.BoundsError
		if !stderrors.As(err, &be) || be.Index != p || be.Capacity != 24 {
			t.Errorf("RelativePosition(%d) bounds error = %+v", p, be)
		}
	}
}

func TestRelativePositionDistinct(t *testing.T) {
	f, err := NewFrame([]int64{5, 4, 3, 2}, []int64{0, 0, 1, 2}, Point{})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	seen := make(map[Point]int64)
	for p := int64(0); p < f.Capacity(); p++ {
		pt, err := f.RelativePosition(p)
		if err != nil {
			t.Fatalf("RelativePosition(%d): %v", p, err)
		}
		if q, dup := seen[pt]; dup {
			t.Fatalf("positions %d and %d share pixel %+v", q, p, pt)
		}
		seen[pt] = p
	}
}

func TestRelativePositionInnerStep(t *testing.T) {
	f := mustDefault(t)
	base := f.BaseWidth()
	for p := int64(1000); p < 1000+3*base; p++ {
		if (p+1)%base == 0 {
			continue
		}
		a, _ := f.RelativePosition(p)
		b, _ := f.RelativePosition(p + 1)
		if b.X-a.X != 1 || b.Y != a.Y {
			t.Fatalf("step %d->%d moved %+v -> %+v", p, p+1, a, b)
		}
	}
}

func TestMaxDimensions(t *testing.T) {
	f := mustDefault(t)
	tests := []struct {
		name   string
		length int64
		w, h   int
	}{
		{"fits in one line", 50, 50 + 3 + 3 + 3, 0 + 3 + 3 + 3},
		{"two lines", 150, 100 + 9, 2 + 9},
		{"two columns", 150_000, 103*2 + 9, 1000 + 9},
		{"two rows", 10_000_001, 103*100 + 9, 1009*2 + 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := f.MaxDimensions(tt.length)
			if w != tt.w || h != tt.h {
				t.Errorf("MaxDimensions(%d) = %dx%d, want %dx%d", tt.length, w, h, tt.w, tt.h)
			}
		})
	}
}

func TestMaxDimensionsCoversLastPosition(t *testing.T) {
	f := mustDefault(t)
	for _, n := range []int64{1, 99, 101, 123_456, 7_654_321} {
		w, h := f.MaxDimensions(n)
		p, err := f.PositionOnScreen(n - 1)
		if err != nil {
			t.Fatalf("PositionOnScreen(%d): %v", n-1, err)
		}
		if p.X >= w || p.Y >= h {
			t.Errorf("length %d: last pixel %+v outside %dx%d", n, p, w, h)
		}
	}
}

func TestRebuild(t *testing.T) {
	f := mustDefault(t)
	mods := f.Modulos()
	mods[3] = 2
	g, err := f.Rebuild(mods)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if g.Level(3).Modulo != 2 || g.Level(4).ChunkSize != 20_000_000 {
		t.Errorf("rebuilt levels = %+v", g.Levels())
	}
	if g.Origin() != f.Origin() {
		t.Errorf("Rebuild changed origin")
	}
	if f.Level(3).Modulo != 6 {
		t.Errorf("Rebuild mutated receiver")
	}
}

func TestDescriptionRoundTrip(t *testing.T) {
	f := mustDefault(t)
	f, _ = f.WithPadding(3, 20)

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var g Frame
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, p := range []int64{0, 777, 10_000_123, 512_345_678} {
		a, _ := f.PositionOnScreen(p)
		b, _ := g.PositionOnScreen(p)
		if a != b {
			t.Errorf("position %d: %+v after round trip, want %+v", p, b, a)
		}
	}
}

func TestFromDescriptionMismatch(t *testing.T) {
	d := mustDefault(t).Description()
	d.Levels[2].ChunkSize++
	if _, err := FromDescription(d); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("FromDescription error = %v, want INVALID_CONFIG", err)
	}
}

func TestPackedCoordinates(t *testing.T) {
	f, err := NewFrame([]int64{10, 10, 4, 2, 3}, []int64{0, 0, 1, 3, 9}, Point{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	coords := f.PackedCoordinates()
	if int64(len(coords)) != f.ColumnSize() || f.ColumnSize() != 100 {
		t.Fatalf("len = %d, ColumnSize = %d, want 100", len(coords), f.ColumnSize())
	}
	tests := []struct {
		i    int
		want PackedCoordinate
	}{
		{0, PackedCoordinate{X: 0, Y: 0, Offset: 0}},
		{9, PackedCoordinate{X: 9, Y: 0, Offset: 9}},
		{10, PackedCoordinate{X: 0, Y: 1, Offset: 10}},
		{99, PackedCoordinate{X: 9, Y: 9, Offset: 99}},
	}
	for _, tt := range tests {
		if coords[tt.i] != tt.want {
			t.Errorf("coords[%d] = %+v, want %+v", tt.i, coords[tt.i], tt.want)
		}
	}

	// The template reproduces PositionOnScreen inside every column.
	for _, column := range []int64{0, 1, 3, 4, 7} {
		start := column * f.ColumnSize()
		origin, err := f.PositionOnScreen(start)
		if err != nil {
			t.Fatalf("PositionOnScreen(%d): %v", start, err)
		}
		for _, c := range coords {
			p, err := f.PositionOnScreen(start + c.Offset)
			if err != nil {
				t.Fatalf("PositionOnScreen(%d): %v", start+c.Offset, err)
			}
			if p.X != origin.X+c.X || p.Y != origin.Y+c.Y {
				t.Fatalf("column %d offset %d at %+v, template gives (%d,%d)",
					column, c.Offset, p, origin.X+c.X, origin.Y+c.Y)
			}
		}
	}
}

func TestPackedCoordinatesTwoLevels(t *testing.T) {
	f, err := NewFrame([]int64{5, 2}, nil, Point{})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	coords := f.PackedCoordinates()
	if len(coords) != 10 || f.ColumnSize() != 10 || coords[9] != (PackedCoordinate{X: 4, Y: 1, Offset: 9}) {
		t.Errorf("coords = %+v, ColumnSize = %d", coords, f.ColumnSize())
	}
}
