package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/pipeline"
)

// metricsCommand creates the metrics command for graph health metrics.
func (c *CLI) metricsCommand() *cobra.Command {
	var (
		snapshotName string
		noCache      bool
		asJSON       bool
		output       string
	)

	cmd := &cobra.Command{
		Use:   "metrics [snapshot.json]",
		Short: "Compute graph health metrics",
		Long: `Compute graph health metrics.

The metrics command hydrates and builds the graph, then reports density,
connectivity quality, the per-type and per-class distributions, and the
strongest relationships.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			if input == "" && snapshotName == "" {
				return fmt.Errorf("either a snapshot file or --snapshot is required")
			}
			return c.runMetrics(cmd.Context(), input, snapshotName, output, noCache, asJSON)
		},
	}

	cmd.Flags().StringVarP(&snapshotName, "snapshot", "s", "", "named snapshot to hydrate from")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit metrics as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for --json (default: stdout)")

	return cmd
}

func (c *CLI) runMetrics(ctx context.Context, input, snapshotName, output string, noCache, asJSON bool) error {
	opts := pipeline.Options{SnapshotName: snapshotName, Logger: c.Logger}
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

	g, err := runner.Hydrate(ctx, opts)
	if err != nil {
		return err
	}
	built, graphHash, _, err := runner.BuildWithCacheInfo(ctx, g, opts)
	if err != nil {
		return err
	}
	metrics, cacheHit, err := runner.MetricsWithCacheInfo(ctx, built, graphHash)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := openOutput(output)
		if err != nil {
			return err
		}
		defer out.Close()
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(metrics)
	}

	displayMetrics(metrics, cacheHit)
	return nil
}

// displayMetrics prints metrics as styled key-value lines.
func displayMetrics(m graph.Metrics, cached bool) {
	fmt.Println(StyleTitle.Render("Graph Metrics"))
	printNewline()
	printKeyValue("Assets", fmt.Sprintf("%d", m.TotalAssets))
	printKeyValue("Relationships", fmt.Sprintf("%d", m.TotalRelationships))
	printKeyValue("Events", fmt.Sprintf("%d", m.EventCount))
	printKeyValue("Avg strength", fmt.Sprintf("%.3f", m.AverageStrength))
	printKeyValue("Density", fmt.Sprintf("%.2f%%", m.Density))
	printKeyValue("Quality score", fmt.Sprintf("%.3f", m.QualityScore))

	if len(m.TypeDistribution) > 0 {
		printNewline()
		fmt.Println(StyleHighlight.Render("Relationship types"))
		for _, k := range sortedKeys(m.TypeDistribution) {
			printKeyValue("  "+k, fmt.Sprintf("%d", m.TypeDistribution[k]))
		}
	}
	if len(m.ClassDistribution) > 0 {
		printNewline()
		fmt.Println(StyleHighlight.Render("Asset classes"))
		for _, k := range sortedKeys(m.ClassDistribution) {
			printKeyValue("  "+k, fmt.Sprintf("%d", m.ClassDistribution[k]))
		}
	}
	if len(m.TopRelationships) > 0 {
		printNewline()
		fmt.Println(StyleHighlight.Render("Strongest relationships"))
		for _, r := range m.TopRelationships {
			printDetail("%s %s %s  %s %.2f", r.Source, iconArrow, r.Target, r.Type, r.Strength)
		}
	}
	printNewline()
	printStats(m.TotalAssets, m.TotalRelationships, cached)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
