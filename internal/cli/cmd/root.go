// Package cmd provides Cobra CLI commands for berkelium.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/berkelium-go/internal/cli"
	"github.com/bnema/berkelium-go/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	logLevel  string
	rootCmd   = &cobra.Command{
		Use:   "berkelium",
		Short: "Drive an embedded browser engine from the terminal",
		Long: `Berkelium hosts an offscreen browser engine window.

Pages render into memory; the commands here deploy the engine files,
render pages to PNG, browse interactively from a terminal shell and
inspect the history of visited pages.

The engine backend is chosen in the config file (engine.backend):
"native" loads the engine shim, "headless" runs the built-in engine.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "path":
				return nil
			}

			if app != nil {
				_ = app.Close()
			}
			var err error
			app, err = cli.NewApp(cli.Options{
				Quiet:    cmd.Name() == "shell",
				LogLevel: logLevel,
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
				app = nil
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (trace, debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
