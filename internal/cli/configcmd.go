package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmq/farmq/internal/config"
)

var configInitForce bool

// configCmd groups configuration management subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the farmq configuration file",
	Long: `Manage the user configuration file.

Settings in the file are overridden by FARMQ_* environment variables,
which are in turn overridden by flags.

Commands:
  farmq config init   Write a commented default config
  farmq config path   Print the config file location`,
}

// configInitCmd writes a default config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Create the user configuration file with the built-in defaults.

Refuses to overwrite an existing file unless --force is given.

Examples:
  farmq config init
  farmq config init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path()
		if err := config.WriteDefault(path, configInitForce); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", path)
		return nil
	},
}

// configPathCmd prints the config file location.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.Path())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite existing config")
}
