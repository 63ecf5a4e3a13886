// Package pkg provides the core libraries for seqgrid genome visualization.
//
// # Overview
//
// seqgrid lays whole genomes out as a single image in which every nucleotide
// is one pixel. Positions are placed by a hierarchy of nested grids: lines
// of nucleotides form columns, columns form rows, rows form tiles, and so on,
// alternating between the x and y axes. Padding between units at each level
// makes the scale of any region readable at a glance.
//
// # Architecture
//
// The typical data flow through seqgrid:
//
//	FASTA / BAM / sequence list
//	         ↓
//	    [source] package (read, filter, compress-aware)
//	         ↓
//	    [tile] package (allocate padding, verify no overlaps)
//	         ↓
//	    [layout] package (sequence index → pixel position)
//	         ↓
//	    [render] package (PNG raster, titles)
//
// # Quick Start
//
// Plan and render a genome:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/seqgrid/pkg/pipeline"
//	    "github.com/matzehuels/seqgrid/pkg/source"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	contigs, _ := pipeline.Read(ctx, "hg38.fa.gz", nil)
//	opts := pipeline.Options{BaseWidth: 100, BorderWidth: 3}
//	plan, _ := runner.Plan(ctx, source.Segments(contigs), opts)
//	png, _ := runner.Render(ctx, plan, contigs, opts)
//
// # Main Packages
//
// ## Layout
//
// [layout] - The level hierarchy. A [layout.Frame] maps a sequence index to
// an (x, y) pixel, reports image dimensions, and serializes to the layout
// description consumed by browsers.
//
// [tile] - Allocates reset, title and tail padding so that each segment
// starts on a clean boundary and titles have room. [tile.Plan.Verify] checks
// that no two segments claim the same pixels.
//
// [curve] - An alternative layout following a space-filling curve over odd
// radices.
//
// [parallel] - Lays several genomes side by side in fixed-width columns.
//
// ## Input and Output
//
// [source] - Reads FASTA (plain, gzip or lz4), BAM headers and plain
// sequence lists into contigs.
//
// [render] - Draws plans into images with per-nucleotide palettes and
// segment titles.
//
// ## Infrastructure
//
// [pipeline] - Read → plan → render, shared by the CLI and the HTTP server.
//
// [cache] - Content-addressed caching of plans and artifacts (file, Redis).
//
// [storage] - Durable layout records (memory, MongoDB).
//
// [server] - HTTP API for planning layouts and fetching stored records.
//
// [config] - TOML configuration for defaults, cache and storage backends.
//
// [errors] - Structured errors with codes shared across packages.
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/layout
// [layout.Frame]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/layout#Frame
// [tile]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/tile
// [tile.Plan.Verify]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/tile#Plan.Verify
// [curve]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/curve
// [parallel]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/parallel
// [source]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/source
// [render]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/storage
// [server]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/seqgrid/pkg/errors
package pkg
