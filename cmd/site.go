// =============================================================================
// MedData CLI - Site Command
// =============================================================================
//
// COMMAND USAGE:
//   meddata site [--serve]
//
// Runs `bundle exec jekyll build` (or `serve`) in the project root. A
// missing bundle binary is reported as a missing dependency.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/meddata-hub/meddata-cli/internal/logging"
	"github.com/meddata-hub/meddata-cli/internal/runner"
	"github.com/spf13/cobra"
)

var siteServe bool

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Generate the static site",
	Long:  `Build the Jekyll site with 'bundle exec jekyll build', or serve it locally with --serve.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		verb := "build"
		if siteServe {
			verb = "serve"
			out.Header("Generating and serving the static site")
		} else {
			out.Header("Generating the static site")
		}

		ctx := cmd.Context()
		_, err := runner.New(logging.FromContext(ctx)).Run(ctx, []string{"bundle", "exec", "jekyll", verb}, runner.Options{
			Dir:         cfg.Paths.ProjectRoot,
			Check:       true,
			Stdout:      os.Stdout,
			Stderr:      os.Stderr,
			InstallHint: "gem install bundler && bundle install",
		})
		if err != nil {
			return fmt.Errorf("failed to generate site: %w", err)
		}

		if siteServe {
			out.Success("Site is being served at http://localhost:4000")
		} else {
			out.Success("Site generated successfully!")
		}
		return nil
	},
}

func init() {
	siteCmd.Flags().BoolVar(&siteServe, "serve", false, "Serve the site locally")

	rootCmd.AddCommand(siteCmd)
}
