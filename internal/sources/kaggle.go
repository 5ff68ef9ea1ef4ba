package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/hub/kaggle"
	"github.com/meddata-hub/meddata-cli/internal/logging"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/internal/tabular"
)

// Kaggle downloads a dataset archive and loads one file from it.
type Kaggle struct {
	cfg  *config.Config
	out  printer.Printer
	http *http.Client
}

// NewKaggle creates the Kaggle processor.
func NewKaggle(cfg *config.Config, out printer.Printer, httpClient *http.Client) *Kaggle {
	return &Kaggle{cfg: cfg, out: out, http: httpClient}
}

// Load implements Processor.
//
// CREDENTIALS:
//
//	The environment token (KAGGLE_TOKEN or KAGGLE_KEY, with KAGGLE_USERNAME)
//	is tried first. When it is missing or the download fails, the
//	credentials in kaggle.json are used. When neither exists the load fails
//	with MissingCredentials before any network call.
func (k *Kaggle) Load(ctx context.Context, src config.Source, datasetID string) (*tabular.Table, error) {
	if src.Dataset == "" {
		return nil, apperr.New(apperr.DatasetConfigError, "Kaggle dataset not specified in configuration").
			With("dataset_id", datasetID).
			With("config_path", k.cfg.Paths.DatasetConfigPath(datasetID))
	}
	if _, _, err := kaggle.SplitRef(src.Dataset); err != nil {
		return nil, apperr.Wrap(apperr.DatasetConfigError, err, "invalid Kaggle dataset reference").
			With("dataset_id", datasetID).
			With("config_path", k.cfg.Paths.DatasetConfigPath(datasetID))
	}

	envCreds, haveEnv := k.cfg.EnvKaggleCredentials()
	_, fileErr := k.cfg.ReadKaggleCredentials()
	if !haveEnv && fileErr != nil {
		return nil, apperr.New(apperr.MissingCredentials,
			"Kaggle API credentials not found. Set KAGGLE_TOKEN in .env file or configure %s", k.cfg.KaggleCredentialsPath()).
			With("platform", "Kaggle").
			With("env", "KAGGLE_USERNAME and KAGGLE_TOKEN")
	}

	if haveEnv {
		wrote, err := k.cfg.EnsureKaggleCredentialsFile()
		if err != nil {
			logging.FromContext(ctx).Warn("could not write kaggle.json", "error", err)
		} else if wrote {
			k.out.Print("Created Kaggle credentials file: " + k.cfg.KaggleCredentialsPath())
		}
	}

	k.out.Header("Downloading dataset: " + src.Dataset)
	dir := k.cfg.Paths.RawDir(datasetID, config.PlatformKaggle)

	var downloadErr error
	if haveEnv {
		_, downloadErr = k.client(kaggle.Credentials(envCreds)).DownloadDataset(ctx, src.Dataset, dir)
		if downloadErr != nil {
			k.out.Warning(fmt.Sprintf("Download with environment credentials failed: %v", downloadErr))
			k.out.Print("Falling back to kaggle.json credentials...")
		}
	}

	if !haveEnv || downloadErr != nil {
		fileCreds, err := k.cfg.ReadKaggleCredentials()
		if err != nil {
			return nil, k.networkError(firstErr(downloadErr, err))
		}
		if _, err := k.client(kaggle.Credentials(fileCreds)).DownloadDataset(ctx, src.Dataset, dir); err != nil {
			return nil, k.networkError(err)
		}
	}

	k.out.Success("Downloaded to: " + dir)

	path, err := LocateDataFile(dir, src.File)
	if err != nil {
		return nil, err
	}

	t, err := LoadDataFile(path)
	if err != nil {
		return nil, err
	}
	t.Source = "kaggle:" + src.Dataset

	k.out.Success(fmt.Sprintf("Loaded %s (%d rows)", path, t.Len()))
	return t, nil
}

func (k *Kaggle) client(creds kaggle.Credentials) *kaggle.Client {
	return kaggle.New(k.cfg.Endpoints.Kaggle, creds, k.http)
}

func (k *Kaggle) networkError(err error) error {
	return apperr.Wrap(apperr.NetworkError, err, "failed to download dataset").
		With("service", "Kaggle API")
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
