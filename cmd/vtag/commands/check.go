package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govtag/internal/cli"
	"github.com/TimurManjosov/govtag/internal/client"
	"github.com/TimurManjosov/govtag/internal/engine"
)

var (
	fieldRole    string
	fieldChecked bool
)

var checkCmd = &cobra.Command{
	Use:   "check <rule> <value>",
	Short: "Evaluate a single rule against a value",
	Long: `Evaluate one rule token against a value. The exit code is 1 when the
value does not satisfy the rule.

Examples:
  vtag check "maxlength(5)" hello
  vtag check "date(dd/mm/yyyy)" 29/02/2024
  vtag check required "" --role checkbox --checked`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rule, value := args[0], args[1]
		field, err := fieldFromFlags()
		if err != nil {
			return err
		}

		var passed bool
		if remote {
			c, err := newClient()
			if err != nil {
				return err
			}
			passed, err = c.EvaluateRule(context.Background(), rule, value, &client.Field{Role: string(field.Control), Checked: field.IsChecked})
			if err != nil {
				return fmt.Errorf("failed to evaluate rule: %w", err)
			}
		} else {
			passed, err = localEngine().EvaluateRule(rule, value, field)
			if err != nil {
				return err
			}
		}

		if !quiet {
			if err := cli.PrintCheck(cmd.OutOrStdout(), rule, value, passed, outputFormat()); err != nil {
				return err
			}
		}
		if !passed {
			return ErrNotValid
		}
		return nil
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain <chain> <value>",
	Short: "Evaluate a '#' separated rule chain against a value",
	Long: `Evaluate a rule chain left to right and report the first rule that
fails. The exit code is 1 when the chain does not pass.

Examples:
  vtag chain "required#email" ana@example.com
  vtag chain "digits#rangenumbers(1,10)" 11 --format json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, value := args[0], args[1]
		field, err := fieldFromFlags()
		if err != nil {
			return err
		}

		var outcome engine.Outcome
		if remote {
			c, err := newClient()
			if err != nil {
				return err
			}
			outcome, err = c.EvaluateChain(context.Background(), chain, value, &client.Field{Role: string(field.Control), Checked: field.IsChecked})
			if err != nil {
				return fmt.Errorf("failed to evaluate chain: %w", err)
			}
		} else {
			outcome, err = localEngine().EvaluateChain(chain, value, field)
			if err != nil {
				return err
			}
		}

		if !quiet {
			if err := cli.PrintOutcome(cmd.OutOrStdout(), chain, outcome, outputFormat()); err != nil {
				return err
			}
		}
		if !outcome.Passed {
			return ErrNotValid
		}
		return nil
	},
}

func fieldFromFlags() (engine.Field, error) {
	role, ok := engine.ParseRole(fieldRole)
	if !ok {
		return engine.Field{}, fmt.Errorf("unknown role %q (want other, checkbox, radio or select)", fieldRole)
	}
	return engine.Field{Control: role, IsChecked: fieldChecked}, nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(chainCmd)

	for _, c := range []*cobra.Command{checkCmd, chainCmd} {
		c.Flags().StringVar(&fieldRole, "role", "", "Control role (other, checkbox, radio, select)")
		c.Flags().BoolVar(&fieldChecked, "checked", false, "Whether the checkbox or radio control is checked")
	}
}
