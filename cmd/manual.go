package cmd

import (
	"github.com/spf13/cobra"
)

// manualSections is the guide printed by `meddata manual`, one entry per
// command in workflow order.
var manualSections = []struct {
	title string
	steps []string
}{
	{"meddata setup", []string{
		"Create a .env file with HF_TOKEN, KAGGLE_USERNAME, KAGGLE_TOKEN and GITHUB_TOKEN",
		"Use --env-file to choose another path and --force to overwrite",
	}},
	{"meddata init <id> <name> <description>", []string{
		"Create _datasets/<id>.yml and dataset/<id>/index.md",
		"Add --license, --changelog, --citation, --ds-card, --contributing or --readme to copy example documents",
	}},
	{"meddata process <id>", []string{
		"Download every configured source from Kaggle or Hugging Face",
		"Drop rows with a missing or duplicate text column",
		"Write data.parquet, sample.csv, sample.xlsx and manifest.yml to _data/processed/<id>/",
	}},
	{"meddata docs <id>", []string{
		"Render README.md, dataset-card.md, CITATION.cff and LICENSE into docs/<id>/",
		"Edit the templates in templates/ to change the output",
	}},
	{"meddata assets [id]", []string{
		"Render assets/images/<id>-logo.svg from assets/templates/dataset-logo.svg",
		"Copy the favicon to assets/images/",
	}},
	{"meddata doctor <id> [--hf] [--kg] [--fix]", []string{
		"Check that the files each platform needs exist",
		"Use --fix to create missing documents from example-docs/",
	}},
	{"meddata publish <id> [--token T] [--platforms P]", []string{
		"Upload the processed data and documents to every publishing target",
		"Use --platforms huggingface to publish to a subset",
	}},
	{"meddata site [--serve]", []string{
		"Build the Jekyll site with bundle exec jekyll build",
		"Use --serve to preview it at http://localhost:4000",
	}},
	{"Global flags", []string{
		"--root DIR or MEDDATA_ROOT selects the project root",
		"--env-file PATH reads tokens from another file",
		"--verbose enables debug diagnostics, --log-format json switches their format",
		"--plain disables colors and panels",
	}},
}

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Show a guide for every command",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out.Header("MedData CLI Manual")
		for _, s := range manualSections {
			out.Guide(s.title, s.steps)
		}
	},
}

func init() {
	rootCmd.AddCommand(manualCmd)
}
