package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashfin/assetgraph/pkg/pipeline"
)

// buildCommand creates the build command for constructing relationships.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output       string
		snapshotName string
		noCache      bool
		refresh      bool
	)

	cmd := &cobra.Command{
		Use:   "build [snapshot.json]",
		Short: "Build relationships from an asset snapshot",
		Long: `Build relationships from an asset snapshot.

The build command hydrates a graph from a snapshot file (or a named
snapshot saved with 'snapshot save'), derives same-sector, corporate-link
and event-impact relationships, and writes the built graph back out as a
snapshot.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			if input == "" && snapshotName == "" {
				return fmt.Errorf("either a snapshot file or --snapshot is required")
			}
			return c.runBuild(cmd.Context(), input, snapshotName, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&snapshotName, "snapshot", "s", "", "named snapshot to hydrate from")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "rebuild even when a cached graph exists")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input, snapshotName, output string, noCache, refresh bool) error {
	opts := pipeline.Options{SnapshotName: snapshotName, Refresh: refresh, Logger: c.Logger}
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
	built, _, cacheHit, err := runner.BuildWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	if err := writeSnapshotFile(output, built.Snapshot()); err != nil {
		return err
	}

	printSuccess("Built relationship graph")
	printStats(built.AssetCount(), built.RelationshipCount(), cacheHit)
	if output != "" {
		printFile(output)
		printNewline()
		printNextStep("Compute metrics", fmt.Sprintf("%s metrics %s", appName, output))
		printNextStep("Render network", fmt.Sprintf("%s render %s", appName, output))
	}
	return nil
}
