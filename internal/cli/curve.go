package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqgrid/pkg/curve"
	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/pipeline"
)

// curveCommand draws one sequence along a space-filling curve.
func (c *CLI) curveCommand() *cobra.Command {
	var (
		output   string
		points   string
		contig   string
		xRadices []int
		yRadices []int
		gap      int
		palette  string
		noCache  bool
	)
	d := c.cfg.Curve

	cmd := &cobra.Command{
		Use:   "curve [input]",
		Short: "Draw one sequence along a space-filling curve",
		Long: `Draw one sequence along a space-filling curve.

The curve is a serpentine odometer over the x and y radices: the innermost
x radix is walked back and forth first, then the innermost y radix, then
the next x radix and so on. Every radix must be odd so consecutive
positions stay adjacent. --gap inserts blank pixels between passes of the
outer levels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.baseOptions()
			fs := cmd.Flags()
			if fs.Changed("x-radices") {
				opts.XRadices = xRadices
			}
			if fs.Changed("y-radices") {
				opts.YRadices = yRadices
			}
			if fs.Changed("gap") {
				opts.Gap = gap
			}
			if fs.Changed("palette") {
				opts.Palette = palette
			}
			var names []string
			if contig != "" {
				names = []string{contig}
			}
			return c.runCurve(ctx, args[0], names, outputPath(output, args[0], ".curve.png"), points, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG (default: <input>.curve.png)")
	cmd.Flags().StringVar(&points, "points", "", "also write the curve's pixel coordinates as TSV")
	cmd.Flags().StringVar(&contig, "contig", "", "contig to draw (default: the first)")
	cmd.Flags().IntSliceVar(&xRadices, "x-radices", d.XRadices, "odd radices along x, innermost first")
	cmd.Flags().IntSliceVar(&yRadices, "y-radices", d.YRadices, "odd radices along y, innermost first")
	cmd.Flags().IntVar(&gap, "gap", d.Gap, "blank pixels between outer passes")
	cmd.Flags().StringVar(&palette, "palette", pipeline.DefaultPalette, "nucleotide palette: classic, natural")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runCurve(ctx context.Context, input string, names []string, output, points string, noCache bool, opts pipeline.Options) error {
	contigs, err := pipeline.Read(ctx, input, names)
	if err != nil {
		return err
	}
	first := contigs[0]
	if len(contigs) > 1 {
		c.Logger.Info("drawing the first contig only", "contig", first.Name, "skipped", len(contigs)-1)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Curve(ctx, first, opts)
	if err != nil {
		return fmt.Errorf("curve %s: %w", first.Name, err)
	}
	if err := writeOutput(output, res.Image); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	if points != "" {
		if err := writePoints(points, res.Curve); err != nil {
			return err
		}
	}

	w, h := res.Curve.MaxDimensions()
	printSuccess("Curve complete")
	printFile(output)
	if points != "" {
		printFile(points)
	}
	printStats(1, w, h, res.CacheHit)
	printKeyValue("points", strconv.Itoa(res.Curve.Len()))
	if res.Truncated {
		printWarning("%s has %d residues; the curve holds %d", first.Name, len(first.Seq), res.Curve.Capacity())
	}
	return nil
}

// writePoints writes "index x y" lines for every point of c.
func writePoints(path string, c *curve.Curve) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "index\tx\ty")
	for i, p := range c.Points() {
		fmt.Fprintf(w, "%d\t%d\t%d\n", i, p.X, p.Y)
	}
	return w.Flush()
}
