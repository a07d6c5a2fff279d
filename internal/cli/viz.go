package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashfin/assetgraph/pkg/pipeline"
)

// vizCommand creates the viz command for the network visualization payload.
func (c *CLI) vizCommand() *cobra.Command {
	var (
		output       string
		snapshotName string
		layout       string
		excludeStr   string
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "viz [snapshot.json]",
		Short: "Assemble the 3D network visualization payload",
		Long: `Assemble the 3D network visualization payload.

The viz command hydrates and builds the graph, positions every asset on
the unit circle, groups relationships into per-type traces with direction
arrows, and writes the payload as JSON. The --layout flag adds a 2D
projection (circular, grid, or spring).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			if input == "" && snapshotName == "" {
				return fmt.Errorf("either a snapshot file or --snapshot is required")
			}
			opts := pipeline.Options{
				SnapshotName:  snapshotName,
				Layout:        layout,
				DisabledTypes: parseExcludes(excludeStr),
				Logger:        c.Logger,
			}
			return c.runViz(cmd.Context(), input, output, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&snapshotName, "snapshot", "s", "", "named snapshot to hydrate from")
	cmd.Flags().StringVarP(&layout, "layout", "l", pipeline.DefaultLayout, "2D layout: circular (default), grid, spring")
	cmd.Flags().StringVar(&excludeStr, "exclude", "", "relationship type(s) to exclude (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runViz(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	if input != "" {
		snap, err := readSnapshotFile(input)
		if err != nil {
			return err
		}
		opts.Snapshot = snap
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Hydrating snapshot...")
	spinner.Start()

	g, err := runner.Hydrate(ctx, opts)
	if err != nil {
		spinner.StopWithError("Hydrate failed")
		return err
	}
	spinner.SetMessage("Building relationships...")
	built, graphHash, _, err := runner.BuildWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.SetMessage("Assembling visualization...")
	vd, cacheHit, err := runner.VizWithCacheInfo(ctx, built, graphHash, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return err
	}
	spinner.Stop()

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(vd); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Assembled %s", vd.Title)
		printStats(len(vd.Nodes.IDs), built.RelationshipCount(), cacheHit)
		printFile(output)
	}
	return nil
}
