package curve

import (
	"reflect"
	"testing"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
)

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name string
		x, y []int
		opts []Option
		code errors.Code
	}{
		{"even radix", []int{3, 4}, []int{3}, nil, errors.ErrCodeInvalidConfig},
		{"zero radix", []int{3}, []int{0}, nil, errors.ErrCodeInvalidConfig},
		{"negative radix", []int{-3}, []int{3}, nil, errors.ErrCodeInvalidConfig},
		{"no y radices", []int{3}, nil, nil, errors.ErrCodeInvalidConfig},
		{"negative gap", []int{3}, []int{3}, []Option{WithGap(-1)}, errors.ErrCodeInvalidConfig},
		{"scaled", []int{3}, []int{3}, []Option{WithScale(3, 5)}, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.x, tt.y, tt.opts...)
			if !errors.Is(err, tt.code) {
				t.Errorf("New error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildSerpentine(t *testing.T) {
	c, err := New([]int{3}, []int{3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Build(100); err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []layout.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 1},
		{X: 0, Y: 2}, {X: 1, Y: 2},
	}
	if !reflect.DeepEqual(c.Points(), want) {
		t.Errorf("Points() = %v, want %v", c.Points(), want)
	}
}

func TestBuildDistinctAndAdjacent(t *testing.T) {
	tests := []struct {
		name string
		x, y []int
	}{
		{"two levels", []int{3, 3}, []int{3, 3}},
		{"mixed radices", []int{5, 3}, []int{3, 7}},
		{"uneven depth", []int{3, 3, 3}, []int{5}},
		{"unit radix", []int{1, 3}, []int{3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.x, tt.y)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if err := c.Build(c.TotalPoints() + 10); err != nil {
				t.Fatalf("Build: %v", err)
			}
			if int64(c.Len()) != c.TotalPoints()-1 {
				t.Fatalf("Len() = %d, want %d", c.Len(), c.TotalPoints()-1)
			}
			w, h := c.MaxDimensions()
			seen := make(map[layout.Point]int)
			for i, p := range c.Points() {
				if j, dup := seen[p]; dup {
					t.Fatalf("indices %d and %d both at %+v", j, i, p)
				}
				seen[p] = i
				if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
					t.Fatalf("index %d at %+v outside %dx%d", i, p, w, h)
				}
				if i > 0 {
					q := c.Points()[i-1]
					if abs(p.X-q.X)+abs(p.Y-q.Y) != 1 {
						t.Fatalf("step %d jumps from %+v to %+v", i, q, p)
					}
				}
			}
		})
	}
}

func TestBuildDeterministic(t *testing.T) {
	build := func() []layout.Point {
		c, err := New([]int{3, 5}, []int{3, 3}, WithGap(2))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := c.Build(100); err != nil {
			t.Fatalf("Build: %v", err)
		}
		return append([]layout.Point(nil), c.Points()...)
	}
	a, b := build(), build()
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds produced different paths")
	}
}

func TestGapSeparatesPasses(t *testing.T) {
	c, err := New([]int{3, 3}, []int{3, 3}, WithGap(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Build(c.Capacity()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	seen := make(map[layout.Point]bool)
	for _, p := range c.Points() {
		if seen[p] {
			t.Fatalf("gap produced duplicate point %+v", p)
		}
		seen[p] = true
		// Columns 3,4 and 8,9 are the gaps between 3-wide passes.
		if p.X%5 >= 3 || p.Y%5 >= 3 {
			t.Fatalf("point %+v falls inside a gap", p)
		}
	}
	w, h := c.MaxDimensions()
	if w != 9+2*2 || h != 9+2*2 {
		t.Errorf("MaxDimensions = %dx%d, want 13x13", w, h)
	}
}

func TestGapIsPositional(t *testing.T) {
	build := func(opts ...Option) []layout.Point {
		c, err := New([]int{3, 3}, []int{3, 3}, opts...)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := c.Build(c.Capacity()); err != nil {
			t.Fatalf("Build: %v", err)
		}
		return append([]layout.Point(nil), c.Points()...)
	}
	plain, gapped := build(), build(WithGap(2))
	if len(plain) != len(gapped) {
		t.Fatalf("len = %d and %d", len(plain), len(gapped))
	}
	for i, p := range plain {
		want := layout.Point{X: p.X + 2*(p.X/3), Y: p.Y + 2*(p.Y/3)}
		if gapped[i] != want {
			t.Fatalf("point %d = %+v, want %+v", i, gapped[i], want)
		}
	}
}

func TestLookupBounds(t *testing.T) {
	c, err := New([]int{3, 3}, []int{3, 3}, WithOrigin(layout.Point{X: 10, Y: 20}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.PositionOnScreen(0); !errors.Is(err, errors.ErrCodeOutOfBounds) {
		t.Errorf("lookup before Build: %v, want OUT_OF_BOUNDS", err)
	}
	if err := c.Build(5); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}
	p, err := c.PositionOnScreen(4)
	if err != nil {
		t.Fatalf("PositionOnScreen(4): %v", err)
	}
	rel, _ := c.RelativePosition(4)
	if p != rel.Add(layout.Point{X: 10, Y: 20}) {
		t.Errorf("PositionOnScreen(4) = %+v, relative %+v", p, rel)
	}
	for _, i := range []int64{-1, 5, 100} {
		if _, err := c.RelativePosition(i); !errors.Is(err, errors.ErrCodeOutOfBounds) {
			t.Errorf("RelativePosition(%d) error = %v, want OUT_OF_BOUNDS", i, err)
		}
	}
	if err := c.Build(-1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Build(-1) error = %v, want INVALID_INPUT", err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
