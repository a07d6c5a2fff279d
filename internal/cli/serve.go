package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashfin/assetgraph/internal/api"
	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		input        string
		snapshotName string
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the asset graph over HTTP",
		Long: `Serve the asset graph over HTTP.

The serve command starts the REST API. The graph starts empty unless a
snapshot file (--load) or named snapshot (--snapshot) is given, in which
case it is hydrated and built before the server accepts requests.

The server shuts down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, input, snapshotName, noCache)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&input, "load", "", "snapshot file to serve initially")
	cmd.Flags().StringVarP(&snapshotName, "snapshot", "s", "", "named snapshot to serve initially")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, input, snapshotName string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	guard := graph.NewSafe(graph.New())

	if input != "" || snapshotName != "" {
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
		g, err := runner.Hydrate(ctx, opts)
		if err != nil {
			return err
		}
		built, _, _, err := runner.BuildWithCacheInfo(ctx, g, opts)
		if err != nil {
			return err
		}
		if err := guard.Restore(built.Snapshot()); err != nil {
			return err
		}
		c.Logger.Info("loaded initial graph",
			"assets", built.AssetCount(),
			"relationships", built.RelationshipCount())
	}

	srv := api.NewServer(guard, runner, c.Logger)
	return srv.ListenAndServe(ctx, addr)
}
