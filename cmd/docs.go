package cmd

import (
	"fmt"

	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/docgen"
	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs <id>",
	Short: "Generate documentation for a dataset",
	Long: `Render README.md, dataset-card.md, CITATION.cff and LICENSE into docs/<id>/
from the templates in templates/.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		ds, err := config.LoadDataset(cfg.Paths, id)
		if err != nil {
			return err
		}

		if _, err := docgen.New(cfg.Paths, out).Generate(ds); err != nil {
			return fmt.Errorf("failed to generate documentation for dataset '%s': %w", id, err)
		}

		out.Success(fmt.Sprintf("Documentation for dataset '%s' generated successfully!", id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
