package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/pipeline"
	"github.com/matzehuels/seqgrid/pkg/server"
)

// levelsCommand prints the level hierarchy of the configured frame, or of
// the frame fitted to an input.
func (c *CLI) levelsCommand() *cobra.Command {
	var (
		asJSON bool
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "levels [input]",
		Short: "Print the level table of a layout",
		Long: `Print the level table of a layout.

Without an input the configured frame is shown. With an input the frame is
first fitted to the genome, which may add rows to the row-in-tile level.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts)

			var frame *layout.Frame
			if len(args) == 0 {
				if err := opts.ValidateAndSetDefaults(); err != nil {
					return err
				}
				f, err := opts.Frame()
				if err != nil {
					return err
				}
				frame = f
			} else {
				ctx := cmd.Context()
				contigs, err := pipeline.Read(ctx, args[0], flags.names)
				if err != nil {
					return err
				}
				runner, err := c.newRunner(ctx, flags.noCache)
				if err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
				defer runner.Close()
				plan, _, err := c.plan(ctx, runner, contigs, opts)
				if err != nil {
					return err
				}
				frame = plan.Frame
			}

			rows := server.LevelTable(frame)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			fmt.Println(levelTable(rows))
			printKeyValue("capacity", fmt.Sprintf("%d", frame.Capacity()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	flags.register(cmd)

	return cmd
}
