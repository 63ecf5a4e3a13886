// Package cli implements the seqgrid command-line interface.
//
// This package provides commands for laying out genome sequences as
// hierarchical pixel grids, rendering them to PNG, inspecting plans in the
// terminal and serving the layout API. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Allocate padding for a FASTA, BAM, SAM or TOML segment list
//   - levels: Print the level table of a layout
//   - render: Draw the tiled layout as a PNG
//   - curve: Draw one sequence along a space-filling curve
//   - parallel: Draw several genomes column by column
//   - inspect: Browse a plan interactively
//   - serve: Run the HTTP API
//   - cache: Manage the plan and image cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is also attached to the command context for code that only sees a
// context.Context.
//
// # Example
//
//	import "github.com/matzehuels/seqgrid/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered hg38.png (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
