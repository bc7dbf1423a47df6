package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/berkelium-go/internal/cli/styles"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print a single plain line")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	if versionShort {
		fmt.Fprintln(cmd.OutOrStdout(), app.BuildInfo.String())
		return nil
	}
	renderer := styles.NewAboutRenderer(app.Theme)
	fmt.Fprintln(cmd.OutOrStdout(), renderer.Render(app.BuildInfo, string(app.Config.Engine.Backend)))
	return nil
}
