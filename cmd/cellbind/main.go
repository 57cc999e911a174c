package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/cellbind/internal/config"
	"github.com/vango-dev/cellbind/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	dir      string
	logLevel string
	logJSON  bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "cellbind",
		Short: "Fine-grained reactive templates for Go",
		Long: `cellbind compiles markup with embedded callbacks, cells, fragments
and components into a live document tree that updates in place.

This tool runs the bundled to-do demo, serves it in a browser
playground and archives document snapshots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "config", "c", ".", "Directory containing cellbind.json")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (default from cellbind.json)")
	rootCmd.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "Log as JSON")

	rootCmd.AddCommand(
		demoCmd(&flags),
		serveCmd(&flags),
		snapshotCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// load reads cellbind.json, applies the global flags and installs the
// default logger.
func (f *globalFlags) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(f.dir)
	if err != nil {
		return nil, nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logJSON {
		cfg.Log.Format = "json"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
