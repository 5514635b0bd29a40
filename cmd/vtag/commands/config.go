package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govtag/internal/cli"
)

var initForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage the vtag CLI configuration file ($VTAG_CONFIG or ~/.vtag/config.yaml).`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long: `Create a configuration file pointing at a local vtag server.

Example:
  vtag config init`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := cli.InitConfig(initForce)
		if err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
		fmt.Fprintln(out, "\nPlease edit the file to set your API keys and base URLs.")
		fmt.Fprintln(out, "Example:")
		fmt.Fprintln(out, "  vtag config set environments.prod.base_url https://vtag.example.com")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long: `Display the current configuration. API keys are masked.

Example:
  vtag config list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		for _, key := range cfg.Keys() {
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, maskSecret(key, value))
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value.

Examples:
  vtag config get default_env
  vtag config get environments.dev.base_url`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value. Unknown environments are created.

Examples:
  vtag config set environments.prod.base_url https://vtag.example.com
  vtag config set environments.prod.api_key my-secret-key
  vtag config set default_env prod`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully set %s\n", args[0])
		}
		return nil
	},
}

// maskSecret hides all but the first four characters of API keys.
func maskSecret(key, value string) string {
	if !strings.HasSuffix(key, "api_key") {
		return value
	}
	if len(value) > 4 {
		return value[:4] + "***"
	}
	return "***"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configListCmd, configGetCmd, configSetCmd)

	configInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}
