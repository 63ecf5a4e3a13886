package tile

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
)

func TestAllocateScenario(t *testing.T) {
	ctx := context.Background()
	segs := []Segment{
		{Name: "plasmid", Length: 50},
		{Name: "chr1", Length: 2_000_000},
	}
	plan, err := Allocate(ctx, defaultFrame(t), segs, Options{SkipSmallTitles: true})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	first, second := plan.Segments[0], plan.Segments[1]
	if first.TitlePadding != 100 {
		t.Errorf("small segment title = %d, want one line (100)", first.TitlePadding)
	}
	if first.ResetPadding != 0 || first.TailPadding != 49 {
		t.Errorf("small segment padding = %+v", first)
	}
	if second.TitlePadding != 100_000 {
		t.Errorf("large segment title = %d, want one column (100000)", second.TitlePadding)
	}
	if second.ResetPadding != 99_801 || second.TailPadding != 99_999 {
		t.Errorf("large segment padding = %+v", second)
	}
	if plan.ImageLength != 2_299_999 {
		t.Errorf("ImageLength = %d, want 2299999", plan.ImageLength)
	}
	if got := plan.Frame.Level(3).Modulo; got != 2 {
		t.Errorf("megarows = %d, want 2", got)
	}
	if got := plan.SeqStart(1); got%plan.Frame.Level(2).ChunkSize != 0 {
		t.Errorf("large segment starts at %d, not on a column boundary", got)
	}

	w, h := plan.MaxDimensions()
	if w != 23*103+9 || h != 1000+9 {
		t.Errorf("MaxDimensions = %dx%d, want %dx%d", w, h, 23*103+9, 1009)
	}
	if err := plan.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestAllocateMonotonicPacking(t *testing.T) {
	segs := []Segment{
		{Name: "chrA", Length: 12_345},
		{Name: "chrB", Length: 678},
		{Name: "chromosome_C", Length: 3_000_000},
		{Name: "z", Length: 1},
	}
	plan, err := Allocate(context.Background(), defaultFrame(t), segs, Options{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	var image int64
	for i, s := range plan.Segments {
		if i > 0 {
			prev := plan.Segments[i-1]
			if s.NucSeqStart != prev.NucSeqStart+s.TitleLength()+prev.Length {
				t.Errorf("segment %d: NucSeqStart = %d, want %d",
					i, s.NucSeqStart, prev.NucSeqStart+s.TitleLength()+prev.Length)
			}
		}
		if got := plan.SeqStart(i); got != image+s.ResetPadding+s.TitlePadding {
			t.Errorf("segment %d: SeqStart = %d, want %d", i, got, image+s.ResetPadding+s.TitlePadding)
		}
		image += s.ResetPadding + s.TitlePadding + s.Length + s.TailPadding
	}
	if image != plan.ImageLength {
		t.Errorf("image cursor = %d, ImageLength = %d", image, plan.ImageLength)
	}
	if segs[0].ResetPadding != 0 || segs[0].NucSeqStart != 0 {
		t.Error("Allocate modified its input")
	}
}

func TestAllocateNoPixelOverlap(t *testing.T) {
	f, err := layout.NewFrame([]int64{10, 10, 10, 10, 10}, []int64{0, 0, 1, 3, 9}, layout.Point{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	segs := []Segment{
		{Name: "a", Length: 7}, {Name: "b", Length: 130}, {Name: "c", Length: 999},
		{Name: "d", Length: 2}, {Name: "e", Length: 4321}, {Name: "f", Length: 55},
	}
	plan, err := Allocate(context.Background(), f, segs, Options{CustomLayout: true, MinLabelGap: 5})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := plan.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	owner := make(map[layout.Point]string)
	for i, s := range plan.Segments {
		start := plan.SeqStart(i)
		for p := start; p < start+s.Length; p++ {
			pt, err := plan.Frame.PositionOnScreen(p)
			if err != nil {
				t.Fatalf("segment %s position %d: %v", s.Name, p, err)
			}
			if other, ok := owner[pt]; ok {
				t.Fatalf("pixel %+v drawn by %s and %s", pt, other, s.Name)
			}
			owner[pt] = s.Name
		}
	}
}

func TestAllocateSortAndManySegments(t *testing.T) {
	segs := []Segment{
		{Name: "s1", Length: 10},
		{Name: "s2", Length: 30_000},
		{Name: "s3", Length: 500},
		{Name: "s4", Length: 20_000},
	}
	plan, err := Allocate(context.Background(), defaultFrame(t), segs, Options{ManySegmentsThreshold: 3})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !plan.Options.SkipSmallTitles || !plan.Options.SortBySize {
		t.Errorf("many segments should force skip and sort: %+v", plan.Options)
	}
	for i := 1; i < len(plan.Segments); i++ {
		if plan.Segments[i].Length > plan.Segments[i-1].Length {
			t.Fatalf("segments not sorted: %v", plan.Segments)
		}
	}
	for _, s := range plan.Segments {
		small := s.Length < DefaultSmallTitleThreshold
		if small && s.TitlePadding != 100 {
			t.Errorf("%s: title = %d, want 100", s.Name, s.TitlePadding)
		}
		if !small && s.TitlePadding == 100 {
			t.Errorf("%s: large segment got a skipped title", s.Name)
		}
	}
}

func TestAllocateDegenerateContinues(t *testing.T) {
	segs := []Segment{
		{Name: "empty", Length: 0},
		{Name: "real", Length: 5000},
	}
	plan, err := Allocate(context.Background(), defaultFrame(t), segs, Options{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !plan.Segments[0].TitleOmitted {
		t.Error("zero-length segment should have its title omitted")
	}
	if plan.Segments[1].TitleOmitted || plan.Segments[1].TitlePadding == 0 {
		t.Errorf("following segment lost its title: %+v", plan.Segments[1])
	}
	if err := plan.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestAllocateDraftGenomeIsSquare(t *testing.T) {
	segs := make([]Segment, 500)
	for i := range segs {
		segs[i] = Segment{Name: fmt.Sprintf("scaffold_%d", i), Length: 200_000}
	}
	plan, err := Allocate(context.Background(), defaultFrame(t), segs, Options{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// 100M positions: sqrt = 10000 pixels = 10 rows of 1000 lines, plus a title row.
	if got := plan.Frame.Level(3).Modulo; got != 11 {
		t.Errorf("megarows = %d, want 11", got)
	}
}

func TestAllocateErrors(t *testing.T) {
	if _, err := Allocate(context.Background(), defaultFrame(t), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty input error = %v, want INVALID_INPUT", err)
	}

	segs := []Segment{{Name: "neg", Length: -5}, {Name: "ok", Length: 300}}
	if _, err := Allocate(context.Background(), defaultFrame(t), segs, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative length error = %v, want INVALID_INPUT", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Allocate(ctx, defaultFrame(t), []Segment{{Name: "x", Length: 1}}, Options{}); err == nil {
		t.Error("cancelled context should abort allocation")
	}
}

func TestSpacing(t *testing.T) {
	segs := make([]Segment, SpacingLimit+5)
	for i := range segs {
		segs[i] = Segment{Name: fmt.Sprintf("c%d", i), Length: int64(100 + i)}
	}
	plan, err := Allocate(context.Background(), defaultFrame(t), segs, Options{NoTitles: true})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	spacing := plan.Spacing()
	if len(spacing) != SpacingLimit {
		t.Fatalf("len(Spacing) = %d, want %d", len(spacing), SpacingLimit)
	}
	for i, sp := range spacing {
		if sp.XYSeqStart != plan.SeqStart(i) {
			t.Fatalf("entry %d: XYSeqStart = %d, want %d", i, sp.XYSeqStart, plan.SeqStart(i))
		}
		if sp.XYSeqEnd-sp.XYSeqStart != plan.Segments[i].Length {
			t.Errorf("entry %d: body span %d, want %d", i, sp.XYSeqEnd-sp.XYSeqStart, plan.Segments[i].Length)
		}
		if sp.XYTitleStart != sp.XYSeqStart-sp.TitlePadding {
			t.Errorf("entry %d: XYTitleStart = %d", i, sp.XYTitleStart)
		}
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	segs := []Segment{{Name: "a", Length: 500}, {Name: "b", Length: 700}}
	fresh := func() *Plan {
		plan, err := Allocate(context.Background(), defaultFrame(t), segs, Options{})
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		return plan
	}

	tests := []struct {
		name   string
		mutate func(p *Plan)
	}{
		{"negative tail", func(p *Plan) { p.Segments[0].TailPadding = -1 }},
		{"text cursor", func(p *Plan) { p.Segments[1].NucSeqStart++ }},
		{"image length", func(p *Plan) { p.ImageLength-- }},
		{"negative length", func(p *Plan) { p.Segments[1].Length = -700 }},
		{"negative text start", func(p *Plan) { p.Segments[0].NucTitleStart = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := fresh()
			tt.mutate(plan)
			if err := plan.Verify(); !errors.Is(err, errors.ErrCodeInternal) {
				t.Errorf("Verify error = %v, want INTERNAL", err)
			}
		})
	}
}

func TestMaxDimensionsIdempotent(t *testing.T) {
	plan, err := Allocate(context.Background(), defaultFrame(t),
		[]Segment{{Name: "a", Length: 777_777}, {Name: "b", Length: 12}}, Options{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	w1, h1 := plan.MaxDimensions()
	w2, h2 := plan.MaxDimensions()
	if w1 != w2 || h1 != h2 {
		t.Errorf("MaxDimensions not idempotent: %dx%d then %dx%d", w1, h1, w2, h2)
	}
}
