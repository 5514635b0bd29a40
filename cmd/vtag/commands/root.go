package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govtag/internal/cli"
	"github.com/TimurManjosov/govtag/internal/client"
	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/logging"
)

// ErrNotValid is returned when a value, chain or form did not pass. The
// verdict has already been printed, so main only sets the exit code.
var ErrNotValid = errors.New("not valid")

var (
	// Global flags
	baseURL string
	apiKey  string
	env     string
	format  string
	remote  bool
	quiet   bool
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vtag",
	Short: "Validate values and forms with vtag rule chains",
	Long: `vtag evaluates rule chains such as "required#email" or
"digits#rangenumbers(1,10)" against values, either locally or through a
vtag server, and manages the form definitions stored on that server.

Examples:
  vtag rules
  vtag check "maxlength(5)" hello
  vtag chain "required#email" ana@example.com
  vtag validate signup.yaml values.yaml
  vtag forms push signup.yaml --env prod`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := cli.ParseFormat(format)
		return err
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the vtag API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Admin API key for form writes")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "Config environment to use (default: default_env)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&remote, "remote", false, "Evaluate on the server instead of locally")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}

func outputFormat() cli.OutputFormat {
	return cli.OutputFormat(format)
}

func newClient() (*client.Client, error) {
	envCfg, err := cli.ResolveEnv(env, baseURL, apiKey)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return client.NewClient(envCfg.BaseURL, envCfg.APIKey), nil
}

// localEngine builds the full rule engine; --verbose logs every rule error.
func localEngine() *engine.Evaluator {
	log := zerolog.Nop()
	if verbose {
		log = logging.New(os.Stderr, logging.FormatConsole, "debug")
	}
	return engine.Default(engine.WithLogger(log))
}
