// =============================================================================
// MedData CLI - Setup Command
// =============================================================================
//
// COMMAND USAGE:
//   meddata setup [--env-file PATH] [--force]
//
// Writes an environment file template holding the API token variables.
// The file is created with mode 0600 since it will hold secrets.
//
// =============================================================================

package cmd

import (
	"os"
	"path/filepath"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/spf13/cobra"
)

// envTemplate is the content written by setup.
const envTemplate = `# MedData Environment Configuration

# Hugging Face API token
# Get your token from https://huggingface.co/settings/tokens
HF_TOKEN=

# Kaggle API token
# Get your token from https://www.kaggle.com/settings
KAGGLE_USERNAME=
KAGGLE_TOKEN=

# GitHub API token
# Get your token from https://github.com/settings/tokens
GITHUB_TOKEN=

# Other configuration settings
`

var setupForce bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up the environment configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out.Header("Setting up environment configuration")

		path := cfg.EnvFile
		written, err := writeEnvTemplate(path, setupForce)
		if err != nil {
			return err
		}
		if !written {
			out.Warning("Environment file already exists at " + path)
			out.Warning("Use --force to overwrite")
			return nil
		}

		out.Success("Created environment configuration file at " + path)
		out.Guide("Next Steps", []string{
			"Edit the .env file and add your API tokens",
			"Restart your application to apply the changes",
		})
		return nil
	},
}

// writeEnvTemplate writes envTemplate to path with mode 0600. An existing
// file is left alone unless force is set.
func writeEnvTemplate(path string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, apperr.FromFS(err, path, "creating environment file directory")
	}
	if err := os.WriteFile(path, []byte(envTemplate), 0o600); err != nil {
		return false, apperr.FromFS(err, path, "writing environment file")
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return false, apperr.FromFS(err, path, "restricting environment file permissions")
	}

	return true, nil
}

func init() {
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "Force overwrite if the file already exists")

	rootCmd.AddCommand(setupCmd)
}
