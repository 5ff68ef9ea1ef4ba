// =============================================================================
// MedData CLI - Publish Command
// =============================================================================
//
// COMMAND USAGE:
//   meddata publish <id> [--token T] [--platforms P...]
//
// FLAGS:
//   --platforms accepts a comma-separated list or several space-separated
//   names: `--platforms huggingface github`.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/publish"
	"github.com/spf13/cobra"
)

var (
	publishToken     string
	publishPlatforms []string
)

var publishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Publish a processed dataset",
	Long: `Upload data.parquet and the generated documentation of a dataset to each
publishing target in _datasets/<id>.yml. A failure on one platform does not
stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPublish,
}

func runPublish(cmd *cobra.Command, args []string) error {
	id, platforms, err := publishArgs(args, publishPlatforms, cmd.Flags().Changed("platforms"))
	if err != nil {
		return err
	}

	opts := publish.Options{Token: publishToken, Platforms: platforms}
	if _, err := publish.New(cfg, out, httpClient()).Publish(cmd.Context(), id, opts); err != nil {
		return fmt.Errorf("failed to publish dataset '%s': %w", id, err)
	}

	out.Success(fmt.Sprintf("Dataset '%s' published successfully!", id))
	return nil
}

// publishArgs splits positionals into the dataset id and any platform
// names that followed --platforms.
func publishArgs(args, platforms []string, platformsSet bool) (string, []string, error) {
	extra := args[1:]
	if len(extra) == 0 {
		return args[0], platforms, nil
	}
	if !platformsSet {
		return "", nil, apperr.New(apperr.InvalidArgument, "unexpected arguments: %s", strings.Join(extra, " ")).
			WithRemedies("Usage: meddata publish <id> [--token T] [--platforms P...]")
	}

	return args[0], append(append([]string(nil), platforms...), extra...), nil
}

func init() {
	publishCmd.Flags().StringVar(&publishToken, "token", "", "API token used for every platform")
	publishCmd.Flags().StringSliceVar(&publishPlatforms, "platforms", nil, "Platforms to publish to (default: all configured)")

	rootCmd.AddCommand(publishCmd)
}
