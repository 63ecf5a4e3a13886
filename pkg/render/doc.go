// Package render draws laid-out sequence into an RGBA image.
//
// A [Raster] owns the canvas. Drawing needs only a [Positioner], the
// interface shared by [layout.Frame], [curve.Curve] and the per-track
// positioners of package parallel, so one raster serves every layout
// mode:
//
//	plan, _ := tile.Allocate(ctx, frame, segments, tile.Options{})
//	w, h := plan.MaxDimensions()
//	r, _ := render.NewRaster(w, h, render.Options{})
//	r.DrawPlan(ctx, plan, plan.Frame, sequences)
//	r.DrawTitles(plan, plan.Frame)
//	r.EncodePNG(out)
//
// Residues are coloured by a [Palette]. Characters the palette does not
// know are drawn red so that they stand out.
//
// [layout.Frame]: github.com/matzehuels/seqgrid/pkg/layout#Frame
// [curve.Curve]: github.com/matzehuels/seqgrid/pkg/curve#Curve
package render
