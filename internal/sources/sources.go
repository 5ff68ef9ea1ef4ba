// =============================================================================
// MedData CLI - Source Processors
// =============================================================================
//
// A source processor pulls raw data for one `sources:` entry of a dataset
// descriptor into a tabular.Table. Downloads land in
// _data/raw/<dataset_id>/<platform>/ and are never cleaned up; downloading
// again overwrites files in place.
//
// PLATFORMS:
//   kaggle       - dataset archive via the Kaggle API, then a named data file
//   huggingface  - Parquet shards of one split via the datasets-server
//
// =============================================================================

package sources

import (
	"context"
	"net/http"

	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/internal/tabular"
)

// Processor loads one source into a table.
type Processor interface {
	Load(ctx context.Context, src config.Source, datasetID string) (*tabular.Table, error)
}

// Registry maps platform names to processors.
type Registry map[string]Processor

// NewRegistry returns the processors for every supported platform.
func NewRegistry(cfg *config.Config, out printer.Printer, httpClient *http.Client) Registry {
	return Registry{
		config.PlatformKaggle:      NewKaggle(cfg, out, httpClient),
		config.PlatformHuggingFace: NewHuggingFace(cfg, out, httpClient),
	}
}

// Lookup returns the processor for platform.
func (r Registry) Lookup(platform string) (Processor, bool) {
	p, ok := r[platform]
	return p, ok
}
