package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/pipeline"
	"github.com/matzehuels/seqgrid/pkg/server"
	"github.com/matzehuels/seqgrid/pkg/storage"
)

// inspectCommand opens an interactive browser over a plan.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "inspect [layout.json | input]",
		Short: "Browse a layout interactively",
		Long: `Browse a layout interactively.

The argument is either a layout.json written by 'layout', or any input
'layout' accepts, in which case the plan is computed first. The browser
lists every segment with its reset, title and tail padding; tab switches
to the level table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts)
			rec, err := c.loadRecord(cmd.Context(), args[0], flags, opts)
			if err != nil {
				return err
			}
			f, err := rec.Frame()
			if err != nil {
				return err
			}

			m := NewPlanModel(filepath.Base(args[0]), rec, server.LevelTable(f))
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// loadRecord reads a stored layout, or plans input when it is not one.
func (c *CLI) loadRecord(ctx context.Context, input string, flags layoutFlags, opts pipeline.Options) (*storage.Record, error) {
	if strings.HasSuffix(input, ".json") {
		return readRecord(input)
	}
	contigs, err := pipeline.Read(ctx, input, flags.names)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	plan, _, err := c.plan(ctx, runner, contigs, opts)
	if err != nil {
		return nil, err
	}
	return storage.NewRecord(pipeline.ModeTile, plan), nil
}

// readRecord decodes a layout.json file.
func readRecord(path string) (*storage.Record, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return nil, err
	}
	var rec storage.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	if len(rec.Layout.Levels) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s has no layout levels", path)
	}
	return &rec, nil
}
