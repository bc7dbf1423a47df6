package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/berkelium-go/internal/cli/styles"
	"github.com/bnema/berkelium-go/pkg/berkelium/deploy"
)

var deployVerify bool

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Extract the bundled engine files",
	Long: `Extract the engine files bundled into this binary next to the engine
profile (engine.home_dir), skipping files that are already up to date.

With --verify, the BLAKE2b-256 digest of every deployed file is compared
with the bundled copy.`,
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)
	deployCmd.Flags().BoolVar(&deployVerify, "verify", false, "compare deployed files with the bundle")
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()

	dirs, err := deploy.Resolve(app.Config.Engine.HomeDir)
	if err != nil {
		return err
	}
	source := app.Resources()
	report, err := deploy.Deploy(ctx, deploy.Options{Source: source, Dir: dirs.Resources})
	if err != nil {
		return err
	}

	renderer := styles.NewDeployRenderer(app.Theme)
	fmt.Fprint(cmd.OutOrStdout(), renderer.RenderReport(report))

	if !deployVerify || source == nil {
		return nil
	}
	checks, err := deploy.Verify(ctx, source, dirs.Resources)
	if err != nil {
		return err
	}
	out, failed := renderer.RenderChecks(checks)
	fmt.Fprint(cmd.OutOrStdout(), out)
	if failed > 0 {
		return fmt.Errorf("%d deployed files differ from the bundle\nhint: run 'berkelium deploy' again after removing %s", failed, dirs.Resources)
	}
	return nil
}
