package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/cellbind/internal/telemetry"
	"github.com/vango-dev/cellbind/internal/todo"
	"github.com/vango-dev/cellbind/pkg/dom"
	"github.com/vango-dev/cellbind/pkg/template"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var (
		items []string
		done  []int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render the to-do demo and print its markup",
		Long: `Render the to-do demo in memory, drive it through the same events a
browser would send, and print the resulting document.

Examples:
  cellbind demo
  cellbind demo --add milk --add eggs --done 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := flags.load()
			if err != nil {
				return err
			}

			e := template.New(
				template.WithLogger(logger),
				template.WithMetrics(telemetry.NewMetrics(telemetry.WithRegistry(prometheus.NewRegistry()))),
			)
			app := todo.New(e)
			body := e.Document().Body()
			body.AppendChild(app.Render().Nodes()...)

			draft := body.Find(dom.ByAttrValue("id", "draft"))
			add := body.Find(dom.ByAttrValue("id", "add"))
			for _, text := range items {
				draft.SetProperty("value", text)
				draft.DispatchEvent(dom.NewEvent("input"))
				add.DispatchEvent(dom.NewEvent("click"))
			}

			boxes := body.FindAll(dom.ByAttrValue("type", "checkbox"))
			for _, i := range done {
				if i < 0 || i >= len(boxes) {
					return fmt.Errorf("--done %d: only %d items", i, len(boxes))
				}
				boxes[i].SetProperty("checked", true)
				boxes[i].DispatchEvent(dom.NewEvent("input"))
			}
			e.Document().RunDeferred()

			if err := dom.Render(os.Stdout, body.ChildNodes()...); err != nil {
				return err
			}
			fmt.Println()
			info("%d items, %d nodes holding cleanups", len(app.States()), e.Registry().Len())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&items, "add", nil, "Add an item (repeatable)")
	cmd.Flags().IntSliceVar(&done, "done", nil, "Check the item at this index (repeatable)")

	return cmd
}
