package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/berkelium-go/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, err := config.GetConfigFile()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), file)
		return nil
	},
}

var configSchemaWrite bool

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	Long: `Print the JSON schema of the config file. With --write the schema is
stored next to the config file, where editors with TOML schema support
pick it up.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configSchemaWrite {
			path, err := config.GenerateSchemaFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}
		data, err := config.GenerateSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configSchemaCmd)
	configSchemaCmd.Flags().BoolVar(&configSchemaWrite, "write", false, "write the schema next to the config file")
}
