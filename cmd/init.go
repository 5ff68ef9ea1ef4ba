// =============================================================================
// MedData CLI - Init Command
// =============================================================================
//
// COMMAND USAGE:
//   meddata init <id> <name> <description> [flags]
//
// FLAGS:
//   --license, --changelog, --citation, --ds-card, --contributing, --readme
//     copy the matching document from example-docs/ into dataset/<id>/
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/meddata-hub/meddata-cli/internal/scaffold"
	"github.com/spf13/cobra"
)

// initDocs holds one switch per example document.
var initDocs = map[string]*bool{}

var initCmd = &cobra.Command{
	Use:   "init <id> <name> <description>",
	Short: "Initialize a new dataset",
	Long: `Create _datasets/<id>.yml from templates/dataset.yml.template and the
dataset page dataset/<id>/index.md. The id may contain letters, digits and
hyphens.`,
	Args: cobra.ExactArgs(3),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	id := args[0]
	out.Header("Initializing dataset: " + id)

	opts := scaffold.Options{ID: id, Name: args[1], Description: args[2]}
	for _, flag := range scaffold.DocOrder {
		if *initDocs[flag] {
			opts.Docs = append(opts.Docs, flag)
		}
	}

	if _, err := scaffold.New(cfg, out).Create(opts); err != nil {
		return fmt.Errorf("failed to initialize dataset '%s': %w", id, err)
	}

	out.Success(fmt.Sprintf("Dataset '%s' initialized successfully!", id))
	return nil
}

func init() {
	for _, flag := range scaffold.DocOrder {
		initDocs[flag] = initCmd.Flags().Bool(flag, false, "Copy "+scaffold.DocFiles[flag]+" from example-docs")
	}

	rootCmd.AddCommand(initCmd)
}
