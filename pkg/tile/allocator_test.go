package tile

import (
	"testing"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
)

func decimalFrame(t *testing.T) *layout.Frame {
	t.Helper()
	// chunk sizes 1, 10, 100, 1000, 10000
	f, err := layout.NewFrame([]int64{10, 10, 10, 10, 10}, []int64{0, 0, 1, 3, 9}, layout.Point{})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	return f
}

func defaultFrame(t *testing.T) *layout.Frame {
	t.Helper()
	f, err := layout.DefaultFrame(layout.DefaultBaseWidth, layout.DefaultBorderWidth)
	if err != nil {
		t.Fatalf("DefaultFrame: %v", err)
	}
	return f
}

func TestCalcPaddingEscalation(t *testing.T) {
	tests := []struct {
		name   string
		gap    int64
		total  int64
		length int64
		want   Padding
	}{
		{
			// 950+20 fits the 1000 chunk but the 100 title does not
			name: "title pushes past chunk", gap: 20, total: 0, length: 950,
			want: Padding{Reset: 0, Title: 1000, Tail: 49, Level: 4},
		},
		{
			name: "gap alone exceeds chunk", gap: 200, total: 0, length: 950,
			want: Padding{Reset: 0, Title: 1000, Tail: 49, Level: 4},
		},
		{
			name: "mid-image reset to previous level", gap: 20, total: 1234, length: 950,
			want: Padding{Reset: 766, Title: 1000, Tail: 49, Level: 4},
		},
		{
			name: "small segment stays low", gap: 20, total: 0, length: 5,
			want: Padding{Reset: 0, Title: 20, Tail: 4, Level: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAllocator(decimalFrame(t), Options{CustomLayout: true, MinLabelGap: tt.gap})
			got, err := a.CalcPadding(tt.total, tt.length)
			if err != nil {
				t.Fatalf("CalcPadding: %v", err)
			}
			if got != tt.want {
				t.Errorf("CalcPadding(%d, %d) = %+v, want %+v", tt.total, tt.length, got, tt.want)
			}
			chunk := a.Frame().Level(got.Level).ChunkSize
			if tt.length+got.Title > chunk {
				t.Errorf("length %d + title %d exceeds chosen chunk %d", tt.length, got.Title, chunk)
			}
		})
	}
}

func TestCalcPaddingTitlePolicy(t *testing.T) {
	f := defaultFrame(t)
	tests := []struct {
		name   string
		opts   Options
		length int64
		title  int64
	}{
		{"default gap", Options{}, 50, 2600},
		{"skip small titles", Options{SkipSmallTitles: true}, 50, 100},
		{"large segment not skipped", Options{SkipSmallTitles: true}, 20_000, 2600},
		{"titles disabled", Options{NoTitles: true}, 50, 0},
		{"one column label", Options{}, 2_000_000, 100_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewAllocator(f, tt.opts).CalcPadding(0, tt.length)
			if err != nil {
				t.Fatalf("CalcPadding: %v", err)
			}
			if p.Title != tt.title {
				t.Errorf("title = %d, want %d", p.Title, tt.title)
			}
			if tt.opts.NoTitles && !p.TitleOmitted {
				t.Error("TitleOmitted should be set when titles are disabled")
			}
		})
	}
}

func TestCalcPaddingMegarowCap(t *testing.T) {
	f, err := layout.NewFrame([]int64{10, 10, 10, 10, 10, 10}, nil, layout.Point{})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	a := NewAllocator(f, Options{CustomLayout: true, MinLabelGap: 20})
	// Escalates to level 5, whose natural title (one level-4 unit) is
	// larger than a megarow.
	p, err := a.CalcPadding(0, 9500)
	if err != nil {
		t.Fatalf("CalcPadding: %v", err)
	}
	want := Padding{Reset: 0, Title: 1000, Tail: 9499, Level: 5}
	if p != want {
		t.Errorf("CalcPadding = %+v, want %+v", p, want)
	}
}

func TestCalcPaddingMegarowReset(t *testing.T) {
	tests := []struct {
		name   string
		custom bool
		want   Padding
	}{
		{"default layout adds a megarow", false, Padding{Reset: 1001, Title: 1000, Tail: 999, Level: 4}},
		{"custom layout keeps single reset", true, Padding{Reset: 1, Title: 1000, Tail: 999, Level: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAllocator(decimalFrame(t), Options{CustomLayout: tt.custom, MinLabelGap: 20})
			p, err := a.CalcPadding(999, 3000)
			if err != nil {
				t.Fatalf("CalcPadding: %v", err)
			}
			if p != tt.want {
				t.Errorf("CalcPadding = %+v, want %+v", p, tt.want)
			}
		})
	}
}

func TestCalcPaddingDefaultFrameMegarowReset(t *testing.T) {
	f := defaultFrame(t)
	megarow := f.Level(3).ChunkSize
	p, err := NewAllocator(f, Options{}).CalcPadding(megarow-1, 3*megarow)
	if err != nil {
		t.Fatalf("CalcPadding: %v", err)
	}
	want := Padding{Reset: megarow + 1, Title: megarow, Tail: megarow - 1, Level: 4}
	if p != want {
		t.Errorf("CalcPadding = %+v, want %+v", p, want)
	}
}

func TestCalcPaddingDegenerate(t *testing.T) {
	t.Run("zero length", func(t *testing.T) {
		p, err := NewAllocator(defaultFrame(t), Options{}).CalcPadding(0, 0)
		if !errors.Is(err, errors.ErrCodeDegenerate) {
			t.Fatalf("error = %v, want DEGENERATE", err)
		}
		if !p.TitleOmitted || p.Title != 0 {
			t.Errorf("zero-length padding = %+v, want title omitted", p)
		}
		if p.Tail != 99 || p.Level != 2 {
			t.Errorf("zero-length padding = %+v, want tail 99 at level 2", p)
		}
	})

	t.Run("fits no level", func(t *testing.T) {
		f, err := layout.NewFrame([]int64{10, 10}, nil, layout.Point{})
		if err != nil {
			t.Fatalf("NewFrame: %v", err)
		}
		p, err := NewAllocator(f, Options{CustomLayout: true, MinLabelGap: 20}).CalcPadding(0, 5)
		if !errors.Is(err, errors.ErrCodeDegenerate) {
			t.Fatalf("error = %v, want DEGENERATE", err)
		}
		if p.Sum() != 0 || p.Level != -1 || !p.TitleOmitted {
			t.Errorf("padding = %+v, want zero with title omitted", p)
		}
	})
}

func TestCalcPaddingAdjustRejectsNegative(t *testing.T) {
	a := NewAllocator(decimalFrame(t), Options{
		CustomLayout: true,
		Adjust: func(_ int64, p Padding) Padding {
			p.Tail = -1
			return p
		},
	})
	_, err := a.CalcPadding(0, 5)
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("error = %v, want INTERNAL", err)
	}
}

func TestCalcPaddingTailAlignment(t *testing.T) {
	a := NewAllocator(decimalFrame(t), Options{CustomLayout: true, MinLabelGap: 5})
	var total int64
	for _, length := range []int64{3, 47, 120, 999, 7, 2500, 1} {
		p, err := a.CalcPadding(total, length)
		if err != nil {
			t.Fatalf("CalcPadding(%d, %d): %v", total, length, err)
		}
		prev, _ := a.Frame().Previous(p.Level)
		end := total + p.Sum() + length
		// The tail stops one short of the boundary so the next reset owns it.
		if (end+1)%prev.ChunkSize != 0 {
			t.Errorf("segment %d ends at %d, not one before a %d boundary", length, end, prev.ChunkSize)
		}
		total = end
	}
}
