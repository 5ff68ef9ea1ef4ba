// =============================================================================
// MedData CLI - Publisher
// =============================================================================
//
// The publisher pushes a processed dataset and its documentation to every
// target listed under `publishing:` in the dataset descriptor.
//
// PLATFORMS:
//   huggingface - data.parquet as data/train-00000-of-00001.parquet, then
//                 each generated doc as its own commit
//   github      - not implemented; a warning is printed and the repository
//                 URL is returned
//
// A failure on one platform is reported and the remaining platforms are
// still attempted. The run succeeds when at least one platform published.
//
// =============================================================================

package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/docgen"
	"github.com/meddata-hub/meddata-cli/internal/hub/huggingface"
	"github.com/meddata-hub/meddata-cli/internal/logging"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/internal/tabular"
)

// HubDataPath is where the Parquet artifact lands in a Hub dataset repo.
const HubDataPath = "data/train-00000-of-00001.parquet"

// docFiles are uploaded in this order when present in docs/<id>.
var docFiles = []string{docgen.ReadmeFile, docgen.CardFile, docgen.CitationFile, docgen.LicenseFile}

// Options filter and authenticate a publish run.
type Options struct {
	// Token overrides every per-platform token.
	Token string

	// Platforms limits publishing to these platforms. Empty means all.
	Platforms []string
}

func (o Options) wants(platform string) bool {
	if len(o.Platforms) == 0 {
		return true
	}
	for _, p := range o.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Outcome is the result for one publishing target.
type Outcome struct {
	Platform   string
	Repository string
	URL        string

	// Err is set when publishing to this target failed.
	Err error
}

// Publisher publishes datasets.
type Publisher struct {
	cfg  *config.Config
	out  printer.Printer
	http *http.Client
}

// New creates a Publisher.
func New(cfg *config.Config, out printer.Printer, httpClient *http.Client) *Publisher {
	return &Publisher{cfg: cfg, out: out, http: httpClient}
}

// Publish pushes datasetID to its configured targets.
//
// RETURNS:
//   - One Outcome per attempted target, in descriptor order.
//   - DatasetConfigError when no targets are configured, or
//     ProcessingError when no target was published.
func (p *Publisher) Publish(ctx context.Context, datasetID string, opts Options) ([]Outcome, error) {
	ds, err := config.LoadDataset(p.cfg.Paths, datasetID)
	if err != nil {
		return nil, err
	}

	p.out.Header("Publishing dataset: " + ds.Name)

	if len(ds.Publishing) == 0 {
		return nil, apperr.New(apperr.DatasetConfigError, "No publishing targets specified in configuration").
			With("dataset_id", datasetID).
			With("config_path", p.cfg.Paths.DatasetConfigPath(datasetID))
	}

	var (
		outcomes  []Outcome
		published []printer.Published
		failures  []error
	)

	for _, target := range ds.Publishing {
		if target.Repository == "" {
			p.out.Warning(fmt.Sprintf("No repository specified for %s, skipping", target.Platform))
			continue
		}
		if !opts.wants(target.Platform) {
			p.out.Print(fmt.Sprintf("Skipping %s (not in specified platforms)", target.Platform))
			continue
		}

		p.out.Header(fmt.Sprintf("Publishing to %s: %s", target.Platform, target.Repository))

		o := Outcome{Platform: target.Platform, Repository: target.Repository}
		o.URL, o.Err = p.publishTarget(ctx, datasetID, target, opts.Token)

		switch {
		case o.Err != nil:
			p.out.Error("Error publishing to "+target.Platform, o.Err)
			failures = append(failures, o.Err)
		case o.URL != "":
			published = append(published, printer.Published{Platform: target.Platform, URL: o.URL})
		}
		outcomes = append(outcomes, o)
	}

	if len(published) == 0 {
		p.out.Warning("No platforms were published to. Check configuration and specified platforms.")
		return outcomes, apperr.Wrap(apperr.ProcessingError, errors.Join(failures...), "no platforms were published to").
			With("dataset_id", datasetID)
	}

	p.out.DatasetPublished(datasetID, published)
	return outcomes, nil
}

// publishTarget returns the public URL, or "" when the platform is not
// supported.
func (p *Publisher) publishTarget(ctx context.Context, datasetID string, target config.Publishing, override string) (string, error) {
	switch target.Platform {
	case config.PlatformHuggingFace, config.PlatformGitHub:
	default:
		p.out.Warning(fmt.Sprintf("Publishing to %s not implemented yet", target.Platform))
		return "", nil
	}

	token, err := p.resolveToken(target.Platform, override)
	if err != nil {
		return "", err
	}

	if target.Platform == config.PlatformGitHub {
		p.out.Warning("GitHub publishing not yet implemented. Coming soon!")
		return target.ResolvedURL(), nil
	}
	return p.publishHuggingFace(ctx, datasetID, target.Repository, token)
}

// resolveToken applies --token, then the platform token from config.
func (p *Publisher) resolveToken(platform, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if token := p.cfg.TokenFor(platform); token != "" {
		return token, nil
	}

	env := "HF_TOKEN or HUGGINGFACE_TOKEN"
	name := "Hugging Face"
	if platform == config.PlatformGitHub {
		env, name = "GITHUB_TOKEN", "GitHub"
	}
	return "", apperr.New(apperr.MissingCredentials, "No %s token provided and none found in environment", name).
		With("platform", name).
		With("env", env)
}

// =============================================================================
// HUGGING FACE
// =============================================================================

func (p *Publisher) publishHuggingFace(ctx context.Context, datasetID, repo, token string) (string, error) {
	log := logging.WithFields(ctx, "dataset_id", datasetID, "repository", repo)

	// =========================================================================
	// STEP 1: VALIDATE ARTIFACT
	// =========================================================================

	dataPath := p.cfg.Paths.ParquetPath(datasetID)
	if _, err := os.Stat(dataPath); err != nil {
		return "", apperr.New(apperr.DataFileNotFound, "Processed dataset not found: %s", dataPath).
			With("path", dataPath).
			WithRemedies(fmt.Sprintf("Run 'meddata process %s' first", datasetID))
	}

	p.out.Header("Loading dataset from " + dataPath)
	rows, err := tabular.CountParquetRows(dataPath)
	if err != nil {
		return "", fmt.Errorf("failed to load processed dataset: %w", err)
	}
	log.Debug("processed dataset validated", "rows", rows)

	// =========================================================================
	// STEP 2: AUTHENTICATE AND CREATE REPO
	// =========================================================================

	client := huggingface.New(huggingface.Options{
		Endpoint:   p.cfg.Endpoints.HuggingFace,
		Token:      token,
		HTTPClient: p.http,
	})

	p.out.Header("Authenticating with Hugging Face")
	user, err := client.WhoAmI(ctx)
	if err != nil {
		return "", p.networkError(err, "authentication failed")
	}
	log.Info("authenticated", "user", user.Name)

	if err := client.CreateDatasetRepo(ctx, repo, false); err != nil {
		return "", p.networkError(err, "failed to create repository %s", repo)
	}

	// =========================================================================
	// STEP 3: UPLOAD DATA AND DOCS
	// =========================================================================

	p.out.Header("Pushing dataset to Hugging Face: " + repo)
	msg := fmt.Sprintf("Upload %s (%d rows)", datasetID, rows)
	if err := client.UploadFile(ctx, repo, dataPath, HubDataPath, msg); err != nil {
		return "", p.networkError(err, "failed to upload %s", dataPath)
	}

	docsDir := p.cfg.Paths.DocsOutputDir(datasetID)
	for _, name := range docFiles {
		local := filepath.Join(docsDir, name)
		if _, err := os.Stat(local); err != nil {
			continue
		}

		p.out.Header(fmt.Sprintf("Uploading %s -> %s", local, name))
		if err := client.UploadFile(ctx, repo, local, name, ""); err != nil {
			return "", p.networkError(err, "failed to upload %s", local)
		}
	}

	url := client.RepoURL(repo)
	p.out.Success("Published dataset to Hugging Face: " + repo)
	p.out.Success("View at: " + url)

	return url, nil
}

func (p *Publisher) networkError(err error, format string, args ...any) error {
	return apperr.Wrap(apperr.NetworkError, err, format, args...).
		With("service", "Hugging Face Hub")
}
