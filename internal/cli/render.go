package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashfin/assetgraph/pkg/pipeline"
)

// renderCommand creates the render command for network artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output       string
		snapshotName string
		formatsStr   string
		layout       string
		excludeStr   string
		detailed     bool
		noCache      bool
		refresh      bool
	)

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Render the asset network to JSON, DOT, SVG, or PNG",
		Long: `Render the asset network to JSON, DOT, SVG, or PNG.

The render command runs the full pipeline: hydrate, build, metrics, viz,
then renders the requested formats. JSON emits the visualization payload;
DOT emits a Graphviz digraph; SVG and PNG rasterize it.

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
			opts := pipeline.Options{
				SnapshotName:  snapshotName,
				Refresh:       refresh,
				Layout:        layout,
				DisabledTypes: parseExcludes(excludeStr),
				Formats:       parseFormats(formatsStr),
				Detailed:      detailed,
				Logger:        c.Logger,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), input, output, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	cmd.Flags().StringVarP(&snapshotName, "snapshot", "s", "", "named snapshot to hydrate from")
	cmd.Flags().StringVarP(&layout, "layout", "l", pipeline.DefaultLayout, "2D layout: circular (default), grid, spring")
	cmd.Flags().StringVar(&excludeStr, "exclude", "", "relationship type(s) to exclude (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show sector and price in DOT node labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "rebuild even when cached results exist")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	if input != "" {
		snap, err := readSnapshotFile(input)
		if err != nil {
			return err
		}
		opts.Snapshot = snap
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering network...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); err != nil {
		return err
	}

	printSuccess("Rendered %s", result.Viz.Title)
	printStats(result.Stats.AssetCount, result.Stats.RelationshipCount, result.CacheInfo.RenderHit)
	return nil
}

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes rendered artifacts to disk. A single format goes
// to the output path directly (or stdout when neither input nor output is
// set); multiple formats share a base path with per-format extensions.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 {
		format := p.formats[0]
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("no artifact for format %s", format)
		}
		path := p.output
		if path == "" && p.input != "" {
			path = basePath("", p.input) + "." + format
		}
		out, err := openOutput(path)
		if err != nil {
			return err
		}
		defer out.Close()
		if _, err := out.Write(data); err != nil {
			return err
		}
		if path != "" {
			printFile(path)
		}
		return nil
	}

	base := basePath(p.output, p.input)
	if base == "" {
		base = "network"
	}
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("no artifact for format %s", format)
		}
		path := base + "." + format
		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return err
		}
		out.Close()
		printFile(path)
	}
	return nil
}
