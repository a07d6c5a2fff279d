package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/pipeline"
	"github.com/dashfin/assetgraph/pkg/store"
)

// snapshotCommand creates the snapshot command for saved graph snapshots.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage saved graph snapshots",
		Long: `Manage saved graph snapshots.

Snapshots are stored in the local cache by default, or in MongoDB with
--mongo (configured via the [mongo] section of the config file). Named
snapshots can be hydrated by the build, metrics, viz, render, and serve
commands through their --snapshot flag.`,
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotLoadCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var (
		name  string
		mongo bool
	)

	cmd := &cobra.Command{
		Use:   "save [snapshot.json]",
		Short: "Save a snapshot under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSnapshotSave(cmd.Context(), args[0], name, mongo)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "snapshot name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&mongo, "mongo", false, "store in MongoDB instead of the local cache")

	return cmd
}

func (c *CLI) runSnapshotSave(ctx context.Context, input, name string, mongo bool) error {
	snap, err := readSnapshotFile(input)
	if err != nil {
		return err
	}

	if mongo {
		st, err := c.newMongoStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close(ctx)
		if err := st.Save(ctx, name, snap); err != nil {
			return err
		}
		printSuccess("Saved snapshot %q to MongoDB", name)
		return nil
	}

	g, err := graph.FromSnapshot(snap)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	if err := runner.SaveSnapshot(ctx, name, g); err != nil {
		return err
	}
	printSuccess("Saved snapshot %q", name)
	printNextStep("Build from it", fmt.Sprintf("%s build --snapshot %s", appName, name))
	return nil
}

func (c *CLI) snapshotLoadCommand() *cobra.Command {
	var (
		output string
		mongo  bool
	)

	cmd := &cobra.Command{
		Use:   "load [name]",
		Short: "Load a named snapshot and write it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSnapshotLoad(cmd.Context(), args[0], output, mongo)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&mongo, "mongo", false, "load from MongoDB instead of the local cache")

	return cmd
}

func (c *CLI) runSnapshotLoad(ctx context.Context, name, output string, mongo bool) error {
	var snap *graph.Snapshot

	if mongo {
		st, err := c.newMongoStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close(ctx)
		snap, err = st.Load(ctx, name)
		if err != nil {
			return err
		}
	} else {
		runner, err := c.newRunner(ctx, false)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()
		g, err := runner.Hydrate(ctx, pipeline.Options{SnapshotName: name, Logger: c.Logger})
		if err != nil {
			return err
		}
		snap = g.Snapshot()
	}

	return writeSnapshotFile(output, snap)
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots stored in MongoDB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newMongoStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			infos, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No snapshots stored")
				return nil
			}
			for _, info := range infos {
				printKeyValue(info.Name, info.SavedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	var mongo bool

	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			if mongo {
				st, err := c.newMongoStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close(ctx)
				if err := st.Delete(ctx, name); err != nil {
					return err
				}
			} else {
				runner, err := c.newRunner(ctx, false)
				if err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
				defer runner.Close()
				if err := runner.DeleteSnapshot(ctx, name); err != nil {
					return err
				}
			}
			printSuccess("Deleted snapshot %q", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&mongo, "mongo", false, "delete from MongoDB instead of the local cache")

	return cmd
}

// newMongoStore connects to the configured MongoDB snapshot store.
func (c *CLI) newMongoStore(ctx context.Context) (*store.MongoStore, error) {
	cfg := c.Config.Mongo
	st, err := store.NewMongoStore(ctx, cfg.URI, cfg.Database, cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB at %s: %w", cfg.URI, err)
	}
	return st, nil
}
