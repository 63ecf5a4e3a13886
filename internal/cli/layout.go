package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqgrid/pkg/pipeline"
	"github.com/matzehuels/seqgrid/pkg/source"
	"github.com/matzehuels/seqgrid/pkg/storage"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

// layoutCommand creates the layout command for allocating a tiled plan.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [input]",
		Short: "Allocate a tiled layout for a genome",
		Long: `Allocate a tiled layout for a genome.

The input is a FASTA file (optionally .gz or .lz4 compressed), a BAM or SAM
file whose header lists the reference sequences, or a TOML segment list:

  [[segment]]
  name = "chr1"
  length = 248956422

The output is a layout.json file with the frame description and the
padding of every segment. It can be inspected with 'inspect' or served by
'serve'. Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts)
			return c.runLayout(cmd.Context(), args[0], output, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout reads the input, allocates the plan and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, input, output string, flags layoutFlags, opts pipeline.Options) error {
	contigs, err := pipeline.Read(ctx, input, flags.names)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	plan, cached, err := c.plan(ctx, runner, contigs, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(storage.NewRecord(pipeline.ModeTile, plan), "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	path := outputPath(output, input, ".layout.json")
	if err := writeOutput(path, append(data, '\n')); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if path == "-" {
		return nil
	}

	w, h := plan.MaxDimensions()
	printSuccess("Layout complete")
	printFile(path)
	printStats(len(plan.Segments), w, h, cached)
	printNewline()
	printNextStep("Render", "seqgrid render "+input)
	return nil
}

// plan allocates contigs behind a spinner.
func (c *CLI) plan(ctx context.Context, runner *pipeline.Runner, contigs []source.Contig, opts pipeline.Options) (*tile.Plan, bool, error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Allocating %d segments...", len(contigs)))
	spinner.Start()

	plan, cached, err := runner.PlanWithCacheInfo(ctx, source.Segments(contigs), opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return nil, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	return plan, cached, nil
}
