// =============================================================================
// MedData CLI - Process Command
// =============================================================================
//
// COMMAND USAGE:
//   meddata process <id>
//
// PROCESSING PIPELINE:
//   1. Load _datasets/<id>.yml
//   2. For each source, download and load the raw data
//   3. Normalize each source on its text column
//   4. Combine the sources and write data.parquet, samples and manifest
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/meddata-hub/meddata-cli/internal/logging"
	"github.com/meddata-hub/meddata-cli/internal/pipeline"
	"github.com/meddata-hub/meddata-cli/internal/sources"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process <id>",
	Short: "Process a dataset from its configured sources",
	Long: `Download every source listed in _datasets/<id>.yml, normalize the data and
write the processed artifacts to _data/processed/<id>/.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	id := args[0]
	ctx := cmd.Context()

	registry := sources.NewRegistry(cfg, out, httpClient())
	result, err := pipeline.New(cfg, out, registry).Run(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to process dataset '%s': %w", id, err)
	}

	logging.WithFields(ctx, "dataset_id", id).Info("dataset processed",
		"rows", result.Summary.Rows,
		"sources", len(result.Sources))

	out.Success(fmt.Sprintf("Dataset '%s' processed successfully!", id))
	return nil
}

func init() {
	rootCmd.AddCommand(processCmd)
}
