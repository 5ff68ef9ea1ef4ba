// =============================================================================
// MedData CLI - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached to it from its own file's init().
//
// COBRA CLI STRUCTURE:
//   rootCmd (meddata)
//   ├── initCmd     (meddata init <id> <name> <description>)
//   ├── processCmd  (meddata process <id>)
//   ├── publishCmd  (meddata publish <id>)
//   ├── assetsCmd   (meddata assets [id])
//   ├── docsCmd     (meddata docs <id>)
//   ├── doctorCmd   (meddata doctor <id>)
//   ├── siteCmd     (meddata site)
//   ├── setupCmd    (meddata setup)
//   ├── manualCmd   (meddata manual)
//   └── versionCmd  (meddata version)
//
// STARTUP:
//   1. Select the printer and print the logo
//   2. Load .env and meddata.yaml from the project root
//   3. Configure slog and attach a run id to the command context
//   4. Validate the project layout (skipped for setup, manual, version)
//
// Commands return errors; Execute is the only place that renders them and
// sets the exit status.
//
// =============================================================================

package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/logging"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// rootDir is the project root. Default: $MEDDATA_ROOT or ".".
var rootDir string

// envFile overrides <root>/.env.
var envFile string

// verbose enables debug logging.
var verbose bool

// plain forces the plain printer.
var plain bool

// logFormat selects "text" or "json" diagnostics.
var logFormat string

// cfg and out are set once per invocation by setupApp.
var (
	cfg *config.Config
	out printer.Printer
)

// skipValidation lists commands that run outside a project.
var skipValidation = map[string]bool{
	"setup":   true,
	"manual":  true,
	"version": true,
	"help":    true,
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "meddata",
	Short: "MedData CLI - Manage medical datasets from source to publication",
	Long: `MedData CLI manages the lifecycle of medical datasets: it scaffolds a
dataset descriptor, pulls raw data from Kaggle and Hugging Face, normalizes
and persists it, generates documentation and site assets, checks that a
dataset is ready to publish, and uploads it to the Hugging Face Hub.

Example Usage:
  meddata init medical-qa "Medical QA" "Question answering pairs"
  meddata process medical-qa
  meddata docs medical-qa
  meddata doctor medical-qa --fix
  meddata publish medical-qa --platforms huggingface`,

	SilenceErrors:     true,
	PersistentPreRunE: setupApp,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI and exits with status 1 on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if out != nil {
			out.SmartError(err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// setupApp builds the printer, configuration and logger for a command.
func setupApp(cmd *cobra.Command, args []string) error {
	// Argument errors above this point still print usage; errors from
	// here on are rendered as diagnostics.
	cmd.SilenceUsage = true

	out = printer.New(os.Stdout, !plain && printer.SupportsRich(os.Stdout))
	out.Logo()

	loaded, err := config.Load(config.LoadOptions{Root: rootDir, EnvFile: envFile})
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	format := cfg.LogFormat
	if cmd.Flags().Changed("log-format") {
		format = logFormat
	}
	logging.Setup(level, format)

	ctx, runID := logging.WithRunID(cmd.Context())
	cmd.SetContext(ctx)
	logging.FromContext(ctx).Debug("command started", "command", cmd.CommandPath(), "root", cfg.Paths.ProjectRoot, "run", runID)

	if skipValidation[cmd.Name()] {
		return nil
	}
	return validateEnvironment(cfg.Paths)
}

// validateEnvironment checks that the command runs inside a project.
func validateEnvironment(paths config.Paths) error {
	var missing []string
	for _, dir := range []string{paths.ProjectRoot, paths.DatasetsDir} {
		if !utils.DirExists(dir) {
			missing = append(missing, dir)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return apperr.New(apperr.DataFileNotFound, "required directories not found").
		With("path", missing[0]).
		WithDetails(missing...).
		WithRemedies(
			"Make sure you're running this command from the project root directory",
			"Pass --root or set MEDDATA_ROOT to point at the project",
			"Run 'meddata init <id> <name> <description>' to create the first dataset",
		)
}

// httpClient is shared by the vendor API clients. Downloads are bounded by
// the command context rather than a client timeout.
func httpClient() *http.Client {
	return &http.Client{}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	defaultRoot := os.Getenv("MEDDATA_ROOT")
	if defaultRoot == "" {
		defaultRoot = "."
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&rootDir, "root", defaultRoot, "Project root directory (env MEDDATA_ROOT)")
	flags.StringVar(&envFile, "env-file", "", "Path to the environment file (default: .env in project root)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.BoolVar(&plain, "plain", false, "Disable colors and panels")
	flags.StringVar(&logFormat, "log-format", "text", "Diagnostic log format: text or json")
}
