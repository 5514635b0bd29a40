package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/govtag/internal/cli"
	"github.com/TimurManjosov/govtag/internal/store"
	"github.com/TimurManjosov/govtag/internal/validation"
)

var (
	pushDryRun   bool
	pushForce    bool
	deleteForce  bool
	exportOutput string
)

// ExportFormat is the file layout of "forms export" and "forms push".
type ExportFormat struct {
	Forms []store.Form `yaml:"forms" json:"forms"`
}

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Manage the form definitions stored on the server",
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List form definitions",
	Long: `List every form definition stored on the server.

Examples:
  vtag forms list --env prod
  vtag forms list --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		forms, err := c.ListForms(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list forms: %w", err)
		}
		if quiet {
			return nil
		}
		if len(forms) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No forms found")
			return nil
		}
		return cli.PrintForms(cmd.OutOrStdout(), forms, outputFormat())
	},
}

var formsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one form definition",
	Long: `Show a form definition. The yaml and json formats print the complete
definition, the table format a summary.

Examples:
  vtag forms get signup --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		f, err := c.GetForm(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get form: %w", err)
		}
		if quiet {
			return nil
		}
		switch outputFormat() {
		case cli.FormatTable:
			return cli.PrintForms(cmd.OutOrStdout(), []store.Form{*f}, cli.FormatTable)
		default:
			return encodeExport(cmd.OutOrStdout(), *f, outputFormat())
		}
	},
}

var formsPushCmd = &cobra.Command{
	Use:   "push <file>...",
	Short: "Create or replace form definitions from files",
	Long: `Upload form definitions. Each file holds either one definition or an
export ("forms:" list). Definitions are checked locally before upload.

Examples:
  vtag forms push signup.yaml --env prod
  vtag forms push backup.yaml --dry-run
  vtag forms push a.yaml b.yaml --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var defs []store.Form
		for _, path := range args {
			forms, err := loadDefinitions(path)
			if err != nil {
				return err
			}
			defs = append(defs, forms...)
		}
		if len(defs) == 0 {
			return fmt.Errorf("no forms found in %s", strings.Join(args, ", "))
		}

		invalid := 0
		valid := make([]store.Form, 0, len(defs))
		for _, def := range defs {
			if res := validation.ValidateForm(def.Params()); !res.Valid {
				invalid++
				fmt.Fprintf(cmd.ErrOrStderr(), "Form '%s' is invalid: %v\n", def.Name, res.Errors)
				continue
			}
			valid = append(valid, def)
		}
		if invalid > 0 && !pushForce {
			return fmt.Errorf("%d invalid definition(s), use --force to push the others", invalid)
		}

		// Dry run mode - just validate and show what would be pushed
		if pushDryRun {
			fmt.Fprintln(out, "Dry run mode - the following forms would be pushed:")
			for _, def := range valid {
				fmt.Fprintf(out, "  - %s (%d fields)\n", def.Name, len(def.Fields))
			}
			return nil
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()

		successCount, errorCount := 0, invalid
		for _, def := range valid {
			if verbose {
				fmt.Fprintf(out, "Pushing form: %s\n", def.Name)
			}
			etag, err := c.UpsertForm(ctx, def.Params())
			if err != nil {
				errorCount++
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to push form '%s': %v\n", def.Name, err)
				if !pushForce {
					return fmt.Errorf("push failed, use --force to continue on errors")
				}
				continue
			}
			successCount++
			if verbose {
				fmt.Fprintf(out, "  catalogue etag %s\n", etag)
			}
		}

		if !quiet {
			fmt.Fprintf(out, "Push complete: %d succeeded, %d failed\n", successCount, errorCount)
		}
		if errorCount > 0 && !pushForce {
			return fmt.Errorf("push completed with errors")
		}
		return nil
	},
}

var formsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a form definition",
	Long: `Delete a form definition from the server.

Examples:
  vtag forms delete signup --env prod
  vtag forms delete signup --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		c, err := newClient()
		if err != nil {
			return err
		}

		// Confirm deletion unless --force
		if !deleteForce && !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete form '%s'? (y/N): ", name)
			response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
				return nil
			}
		}

		if err := c.DeleteForm(context.Background(), name); err != nil {
			return fmt.Errorf("failed to delete form: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully deleted form '%s'\n", name)
		}
		return nil
	},
}

var formsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every form definition to a file",
	Long: `Export all form definitions to a YAML or JSON file that "forms push"
accepts.

Examples:
  vtag forms export --output forms.yaml
  vtag forms export --format json > backup.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		forms, err := c.ListForms(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list forms: %w", err)
		}

		// Determine output destination
		var output io.Writer = cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			output = f
		}

		// Default to YAML for export
		exportFormat := outputFormat()
		if exportFormat == cli.FormatTable {
			exportFormat = cli.FormatYAML
		}
		if err := encodeExport(output, ExportFormat{Forms: forms}, exportFormat); err != nil {
			return err
		}
		if verbose && output != cmd.OutOrStdout() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d form(s) to %s\n", len(forms), exportOutput)
		}
		return nil
	},
}

// loadDefinitions reads a single definition or an ExportFormat file.
func loadDefinitions(path string) ([]store.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var export ExportFormat
	if err := yaml.Unmarshal(data, &export); err == nil && len(export.Forms) > 0 {
		return export.Forms, nil
	}
	def, err := cli.LoadFormFile(path)
	if err != nil {
		return nil, err
	}
	return []store.Form{def}, nil
}

func encodeExport(w io.Writer, v any, f cli.OutputFormat) error {
	if f == cli.FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(formsCmd)
	formsCmd.AddCommand(formsListCmd, formsGetCmd, formsPushCmd, formsDeleteCmd, formsExportCmd)

	formsPushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "Validate without uploading")
	formsPushCmd.Flags().BoolVar(&pushForce, "force", false, "Continue on errors")
	formsDeleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")
	formsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}
