package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bnema/berkelium-go/internal/cli/styles"
)

const defaultHistoryLimit = 25

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently visited pages",
	Long:  `List the pages host sessions finished loading, most recent first.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "maximum entries to show")
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "table", "output format: table, json or yaml")

	historyCmd.AddCommand(historyClearCmd)
	historyClearCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "only remove entries not visited within this duration")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()
	repo, err := app.History()
	if err != nil {
		return err
	}

	entries, err := repo.GetRecent(ctx, historyLimit, 0)
	if err != nil {
		return err
	}
	switch historyFormat {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(entries)
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q", historyFormat)
	}

	stats, err := repo.GetStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewHistoryRenderer(app.Theme).Render(entries, stats))
	return nil
}

var historyOlderThan time.Duration

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove recorded visits",
	RunE:  runHistoryClear,
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()
	repo, err := app.History()
	if err != nil {
		return err
	}

	if historyOlderThan > 0 {
		if err := repo.DeleteOlderThan(ctx, time.Now().Add(-historyOlderThan)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed visits older than %s\n", historyOlderThan)
		return nil
	}
	if err := repo.DeleteAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
	return nil
}
