package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/cellbind/internal/playground"
	"github.com/vango-dev/cellbind/internal/snapshot"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the to-do demo in a browser playground",
		Long: `Serve the to-do demo. The document lives on the server; the page
forwards browser events over a WebSocket and shows the markup the
server sends back.

Examples:
  cellbind serve
  cellbind serve --port=8080
  cellbind serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Playground.Port = port
			}
			if host != "" {
				cfg.Playground.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts := playground.Options{
				Title:       cfg.Playground.Title,
				Logger:      logger,
				MetricsPath: cfg.Metrics.Path,
			}
			if cfg.Metrics.Enabled {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				opts.Registry = reg
			}
			store, err := snapshot.Open(cfg)
			if err != nil {
				return err
			}
			opts.Store = store

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success("Playground at %s", cfg.URL())
			err = playground.New(opts).ListenAndServe(ctx, cfg.Address())
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from cellbind.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from cellbind.json)")

	return cmd
}
