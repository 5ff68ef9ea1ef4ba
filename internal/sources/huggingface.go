package sources

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/hub/huggingface"
	"github.com/meddata-hub/meddata-cli/internal/logging"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/internal/tabular"
)

// HuggingFace loads one split of a Hub dataset from its Parquet shards.
type HuggingFace struct {
	cfg    *config.Config
	out    printer.Printer
	client *huggingface.Client
}

// NewHuggingFace creates the Hugging Face processor. HF_TOKEN, when set, is
// sent as a bearer token so gated datasets can be read.
func NewHuggingFace(cfg *config.Config, out printer.Printer, httpClient *http.Client) *HuggingFace {
	return &HuggingFace{
		cfg: cfg,
		out: out,
		client: huggingface.New(huggingface.Options{
			Endpoint:       cfg.Endpoints.HuggingFace,
			DatasetsServer: cfg.Endpoints.DatasetsServer,
			Token:          cfg.Tokens.HuggingFace,
			HTTPClient:     httpClient,
		}),
	}
}

// Load implements Processor.
func (h *HuggingFace) Load(ctx context.Context, src config.Source, datasetID string) (*tabular.Table, error) {
	if src.Dataset == "" {
		return nil, apperr.New(apperr.DatasetConfigError, "Hugging Face dataset not specified in configuration").
			With("dataset_id", datasetID).
			With("config_path", h.cfg.Paths.DatasetConfigPath(datasetID))
	}

	split := src.Split
	if split == "" {
		split = "train"
	}

	h.out.Header(fmt.Sprintf("Loading dataset: %s (split: %s)", src.Dataset, split))
	log := logging.WithFields(ctx, "dataset", src.Dataset, "split", split)

	files, err := h.client.ParquetFiles(ctx, src.Dataset)
	if err != nil {
		return nil, h.networkError(err, "failed to list Parquet files for %s", src.Dataset)
	}

	shards := huggingface.SelectSplit(files, split)
	if len(shards) == 0 {
		return nil, apperr.New(apperr.NetworkError, "split %q not found for dataset %s", split, src.Dataset).
			With("service", "Hugging Face Hub").
			WithRemedies(
				"Check the dataset name on https://huggingface.co/datasets/"+src.Dataset,
				"Check that the 'split' entry in the dataset configuration exists",
				"Make sure the dataset has been converted to Parquet by the Hub",
			)
	}

	dir := h.cfg.Paths.RawDir(datasetID, config.PlatformHuggingFace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.FromFS(err, dir, "creating raw data directory")
	}

	tables := make([]*tabular.Table, 0, len(shards))
	for i, shard := range shards {
		dest := filepath.Join(dir, shardName(shard, i))

		n, err := h.client.Download(ctx, shard.URL, dest)
		if err != nil {
			return nil, h.networkError(err, "failed to download %s", shard.URL)
		}
		log.Debug("downloaded shard", "path", dest, "bytes", n)

		t, err := tabular.ReadParquetFile(dest)
		if err != nil {
			return nil, h.networkError(err, "failed to decode shard %s", dest)
		}
		tables = append(tables, t)
	}

	t := tabular.Concat(tables...)
	t.Source = "huggingface:" + src.Dataset

	h.out.Success(fmt.Sprintf("Loaded %d rows from %d shard(s)", t.Len(), len(shards)))
	return t, nil
}

func (h *HuggingFace) networkError(err error, format string, args ...any) error {
	return apperr.Wrap(apperr.NetworkError, err, format, args...).
		With("service", "Hugging Face Hub")
}

// shardName keeps the config and split in the local file name so shards of
// different splits never collide.
func shardName(f huggingface.ParquetFile, i int) string {
	name := f.Filename
	if name == "" {
		name = fmt.Sprintf("%04d.parquet", i)
	}
	return fmt.Sprintf("%s-%s-%s", f.Config, f.Split, filepath.Base(name))
}
