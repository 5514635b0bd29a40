package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govtag/internal/cli"
	"github.com/TimurManjosov/govtag/internal/form"
	"github.com/TimurManjosov/govtag/internal/validation"
)

var (
	validateLang        string
	validateConcurrency int
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition|form-name> <values-file>",
	Short: "Validate a submission against a form definition",
	Long: `Validate the values of a submission against every field of a form.

Locally the first argument is a YAML or JSON definition file. With --remote
it is the name of a form stored on the server.

The values file holds a "values" map and an optional "checked" map for
checkbox and radio controls. The exit code is 1 when the form is not valid.

Examples:
  vtag validate signup.yaml values.yaml
  vtag validate signup values.json --remote --env prod`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := cli.LoadInputFile(args[1])
		if err != nil {
			return err
		}

		ctx := context.Background()
		var report form.Report
		if remote {
			c, err := newClient()
			if err != nil {
				return err
			}
			report, err = c.ValidateForm(ctx, args[0], in)
			if err != nil {
				return fmt.Errorf("failed to validate form: %w", err)
			}
		} else {
			def, err := cli.LoadFormFile(args[0])
			if err != nil {
				return err
			}
			if res := validation.ValidateForm(def.Params()); !res.Valid {
				return fmt.Errorf("invalid form definition: %v", res.Errors)
			}
			lang, ok := form.ParseLang(validateLang)
			if !ok {
				return fmt.Errorf("unsupported language %q (want es or en)", validateLang)
			}
			v := form.NewValidator(localEngine(), form.WithLang(lang), form.WithMaxConcurrency(validateConcurrency))
			report, err = v.Validate(ctx, def, in)
			if err != nil {
				return err
			}
		}

		if !quiet {
			if err := cli.PrintReport(cmd.OutOrStdout(), report, outputFormat()); err != nil {
				return err
			}
		}
		if !report.Valid {
			return ErrNotValid
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateLang, "lang", string(form.DefaultLang), "Language of the default field messages (es, en)")
	validateCmd.Flags().IntVar(&validateConcurrency, "concurrency", form.DefaultMaxConcurrency, "Fields evaluated in parallel")
}
