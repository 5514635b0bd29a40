package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govtag/internal/cli"
	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the supported rule kinds",
	Long: `List every rule kind the engine understands.

Examples:
  vtag rules
  vtag rules --remote --env prod --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds, version := rules.Kinds(), engine.Version
		if remote {
			c, err := newClient()
			if err != nil {
				return err
			}
			kinds, version, err = c.ListRules(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}
		}
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "engine %s\n", version)
		}
		if quiet {
			return nil
		}
		return cli.PrintRules(cmd.OutOrStdout(), kinds, outputFormat())
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
