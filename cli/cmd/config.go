package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wp-externals configuration",
	Long:  `Create and inspect the wp-externals.yaml configuration.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default settings",
	Long: `Write the effective settings (defaults, environment and flags) to a new
configuration file. Refuses to overwrite an existing file.

Examples:
  wp-externals config init
  wp-externals config init config/wp-externals.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Long: `Show the configuration after merging defaults, the config file,
environment variables and flags.

Examples:
  wp-externals config view
  wp-externals config view --output yaml`,
	RunE: runConfigView,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value.

Examples:
  wp-externals config get manifest.format
  wp-externals config get namespace.global_root`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "wp-externals.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !quiet {
		fmt.Printf("Configuration file created at: %s\n", path)
	}
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	return formatter.Print(v.AllSettings())
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !v.IsSet(key) {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return formatter.Print(v.Get(key))
}
