package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqgrid/pkg/pipeline"
	"github.com/matzehuels/seqgrid/pkg/source"
)

// renderCommand creates the render command, which draws the tiled layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render a genome as a tiled PNG",
		Long: `Render a genome as a tiled PNG.

Every nucleotide becomes one pixel. Lines of --base-width nucleotides are
stacked into columns, columns into rows and rows into tiles, with padding
between segments so that each contig starts on a clean boundary and has
room for its title.

Inputs without residues (BAM, SAM and TOML segment lists) render the
titles and an empty grid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts)
			if err := pipeline.ValidatePalette(opts.Palette); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], outputPath(output, args[0], ".png"), flags, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG, - for stdout (default: <input>.png)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, flags layoutFlags, opts pipeline.Options) error {
	prog := newProgress(c.Logger)

	contigs, err := pipeline.Read(ctx, input, flags.names)
	if err != nil {
		return err
	}
	c.checkResidues(contigs)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	plan, cached, err := c.plan(ctx, runner, contigs, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Drawing...")
	spinner.Start()
	png, err := runner.Render(ctx, plan, contigs, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := writeOutput(output, png); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	if output == "-" {
		return nil
	}
	prog.done("Rendered " + filepath.Base(output))

	w, h := plan.MaxDimensions()
	printSuccess("Render complete")
	printFile(output)
	printStats(len(plan.Segments), w, h, cached)
	return nil
}

// checkResidues warns about inputs that will not draw as nucleotides.
func (c *CLI) checkResidues(contigs []source.Contig) {
	var withSeq int
	for _, ct := range contigs {
		if !ct.HasSequence() {
			continue
		}
		withSeq++
		if source.IsProtein(ct.Seq) {
			c.Logger.Warn("sequence looks like protein; amino acids use the Rasmol colours", "contig", ct.Name)
			break
		}
	}
	if withSeq == 0 {
		c.Logger.Warn("input has no residues; drawing the empty layout")
	}
}
