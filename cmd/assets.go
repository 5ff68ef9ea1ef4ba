package cmd

import (
	"github.com/meddata-hub/meddata-cli/internal/assets"
	"github.com/spf13/cobra"
)

var assetsCmd = &cobra.Command{
	Use:   "assets [dataset_id]",
	Short: "Generate logos and favicons",
	Long: `Render assets/templates/dataset-logo.svg for one dataset, or for every
dataset when no id is given, and copy the site favicon.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			out.Header("Generating assets for dataset: " + args[0])
		} else {
			out.Header("Generating assets for all datasets")
		}

		if _, err := assets.New(cfg.Paths, out).Generate(args); err != nil {
			return err
		}

		out.Success("Assets generated successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assetsCmd)
}
