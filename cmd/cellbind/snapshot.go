package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/cellbind/internal/snapshot"
	"github.com/vango-dev/cellbind/internal/todo"
	"github.com/vango-dev/cellbind/pkg/template"
)

func snapshotCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, list and show document snapshots",
		Long: `Snapshots archive the rendered demo document and its items. They are
stored in snapshot.dir, or in S3 when snapshot.s3.bucket is set.`,
	}

	cmd.AddCommand(snapshotSaveCmd(flags), snapshotListCmd(flags), snapshotShowCmd(flags))
	return cmd
}

func snapshotSaveCmd(flags *globalFlags) *cobra.Command {
	var items []string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Render the demo and store a snapshot of it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			store, err := snapshot.Open(cfg)
			if err != nil {
				return err
			}

			e := template.New(template.WithLogger(logger))
			app := todo.New(e)
			e.Document().Body().AppendChild(app.Render().Nodes()...)

			states := make([]todo.State, len(items))
			for i, text := range items {
				states[i] = todo.State{Text: text}
			}
			app.Restore(states)

			snap := snapshot.Capture(e, app)
			if err := store.Put(cmd.Context(), snap); err != nil {
				return err
			}
			success("Saved snapshot %s", snap.ID)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&items, "add", nil, "Item to include (repeatable)")
	return cmd
}

func snapshotListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.load()
			if err != nil {
				return err
			}
			store, err := snapshot.Open(cfg)
			if err != nil {
				return err
			}

			ids, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}

func snapshotShowCmd(flags *globalFlags) *cobra.Command {
	var htmlOnly bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			store, err := snapshot.Open(cfg)
			if err != nil {
				return err
			}

			snap, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if htmlOnly {
				_, err := io.WriteString(os.Stdout, snap.HTML+"\n")
				return err
			}

			logger.Debug("snapshot loaded", slog.String("id", snap.ID))
			fmt.Printf("ID:       %s\n", snap.ID)
			fmt.Printf("Created:  %s\n", snap.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Printf("Cleanups: %d\n", snap.CleanupEntries)
			for _, it := range snap.Items {
				mark := " "
				if it.Completed {
					mark = "x"
				}
				fmt.Printf("  [%s] %s\n", mark, it.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&htmlOnly, "html", false, "Print only the markup")
	return cmd
}
