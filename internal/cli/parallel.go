package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqgrid/pkg/pipeline"
)

// parallelCommand draws several genomes interleaved column by column.
func (c *CLI) parallelCommand() *cobra.Command {
	var (
		output string
		widths []int64
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "parallel [input...]",
		Short: "Draw several genomes side by side",
		Long: `Draw several genomes side by side.

Column k of the first genome is followed by column k of the second and so
on, so aligned chromosomes of related genomes can be compared directly.
Each genome is named after its file.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts)
			opts.ColumnWidths = widths
			if output == "" {
				output = "parallel.png"
			}
			return c.runParallel(cmd.Context(), args, output, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG (default: parallel.png)")
	cmd.Flags().Int64SliceVar(&widths, "column-widths", nil, "line width per genome (default: --base-width for all)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runParallel(ctx context.Context, inputs []string, output string, flags layoutFlags, opts pipeline.Options) error {
	genomes := make([]pipeline.Genome, len(inputs))
	for i, in := range inputs {
		contigs, err := pipeline.Read(ctx, in, flags.names)
		if err != nil {
			return err
		}
		genomes[i] = pipeline.Genome{Name: filepath.Base(stem(in)), Contigs: contigs}
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d genomes...", len(genomes)))
	spinner.Start()
	res, err := runner.Parallel(ctx, genomes, opts)
	if err != nil {
		spinner.StopWithError("Parallel layout failed")
		return err
	}
	spinner.Stop()

	if err := writeOutput(output, res.Image); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	w, h := res.Layout.MaxDimensions(res.Plans)
	segments := 0
	for _, p := range res.Plans {
		segments += len(p.Segments)
	}
	printSuccess("Parallel layout complete")
	printFile(output)
	printStats(segments, w, h, res.CacheHit)
	for _, g := range genomes {
		printDetail("%s: %d contigs", g.Name, len(g.Contigs))
	}
	return nil
}
