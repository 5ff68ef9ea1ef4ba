// =============================================================================
// MedData CLI - Doctor Command
// =============================================================================
//
// COMMAND USAGE:
//   meddata doctor <id> [--hf] [--kg] [--fix]
//
// Exits 1 when a required file is missing and --fix is not set.
//
// =============================================================================

package cmd

import (
	"github.com/meddata-hub/meddata-cli/internal/doctor"
	"github.com/spf13/cobra"
)

var (
	doctorHF  bool
	doctorKG  bool
	doctorFix bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor <id>",
	Short: "Check that a dataset has every file needed to publish",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		out.Header("Checking dataset: " + id)

		var platforms []string
		if doctorHF {
			platforms = append(platforms, doctor.HuggingFace)
		}
		if doctorKG {
			platforms = append(platforms, doctor.Kaggle)
		}

		_, err := doctor.New(cfg.Paths, out).Check(id, doctor.Options{Platforms: platforms, Fix: doctorFix})
		return err
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorHF, "hf", false, "Check Hugging Face requirements")
	doctorCmd.Flags().BoolVar(&doctorKG, "kg", false, "Check Kaggle requirements")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing documents from example-docs templates")

	rootCmd.AddCommand(doctorCmd)
}
