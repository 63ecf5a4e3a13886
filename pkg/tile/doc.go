// Package tile reserves blank space around sequence segments.
//
// A genome is drawn as a list of segments (chromosomes, contigs, scaffolds)
// packed one after another onto a [layout.Frame]. Between segments the
// image needs room for a readable name and clean boundaries, so each
// segment receives three reservations, all measured in logical positions:
//
//   - reset: blank space before the title, so the segment starts on a
//     boundary instead of mid-row
//   - title: space for the label, sized to the granularity of the level
//     that holds the segment
//   - tail: blank space after the body, so the next segment also starts on
//     a boundary of the next smaller level
//
// # Level search
//
// [Allocator.CalcPadding] picks the smallest level whose chunk holds the
// body plus a minimum label gap. The title defaults to one unit of the
// level below, capped at one megarow. If body plus title no longer fits the
// chosen level the search continues upward. A segment that fits no level is
// laid out without padding or title and reported as DEGENERATE.
//
// # Plans
//
// [Allocate] runs the allocator over a whole assembly. It sorts when asked
// (or when there are too many segments to title), resizes the frame's
// row-in-tile level to fit the largest segment, and records both the image
// cursor and the text cursor for every segment. The resulting [Plan] knows
// its canvas size, produces the spacing table viewers consume, and can
// [Plan.Verify] its own arithmetic.
//
//	plan, err := tile.Allocate(ctx, frame, segments, tile.Options{SortBySize: true})
//	if err != nil {
//	    return err
//	}
//	w, h := plan.MaxDimensions()
package tile
