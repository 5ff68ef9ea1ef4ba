// =============================================================================
// MedData CLI - Processing Pipeline
// =============================================================================
//
// The pipeline implements `meddata process <id>`. It orchestrates every step
// for one dataset, from reading the descriptor to writing the processed
// artifacts.
//
// PROCESSING PIPELINE:
//   1. Ensure the project directories exist
//   2. Load the dataset descriptor
//   3. Load and normalize each source, in order
//   4. Persist the combined table
//   5. Report statistics and next steps
//
// A failing source is reported and skipped; the remaining sources are still
// processed. The run fails only when no source produced data.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/logging"
	"github.com/meddata-hub/meddata-cli/internal/normalize"
	"github.com/meddata-hub/meddata-cli/internal/persist"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/internal/sources"
	"github.com/meddata-hub/meddata-cli/internal/tabular"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// SourceResult is the outcome of a single source.
type SourceResult struct {
	Source config.Source

	// Rows is the row count after normalization.
	Rows int

	Report normalize.Report

	// Err is set when the source was skipped.
	Err error
}

// Result is the outcome of a pipeline run.
type Result struct {
	DatasetID string
	Sources   []SourceResult
	Summary   *persist.Summary
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline processes datasets.
type Pipeline struct {
	cfg      *config.Config
	out      printer.Printer
	registry sources.Registry
}

// New creates a Pipeline.
//
// PARAMETERS:
//   - cfg: the resolved configuration.
//   - out: the printer for user-facing output.
//   - registry: the source processors by platform.
func New(cfg *config.Config, out printer.Printer, registry sources.Registry) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		out:      out,
		registry: registry,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run processes one dataset.
//
// RETURNS:
//   - A Result with per-source outcomes and the persisted summary.
//   - DatasetConfigError when the descriptor is unusable or lists no
//     sources, ProcessingError when no source produced data, or the
//     persister's error.
func (p *Pipeline) Run(ctx context.Context, datasetID string) (*Result, error) {
	log := logging.WithFields(ctx, "dataset_id", datasetID)

	// =========================================================================
	// STEP 1: ENSURE DIRECTORIES
	// =========================================================================

	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: LOAD DESCRIPTOR
	// =========================================================================

	ds, err := config.LoadDataset(p.cfg.Paths, datasetID)
	if err != nil {
		return nil, err
	}

	p.out.Header("Processing dataset: " + ds.Name)

	if len(ds.Sources) == 0 {
		return nil, apperr.New(apperr.DatasetConfigError, "No data sources specified in configuration").
			With("dataset_id", datasetID).
			With("config_path", p.cfg.Paths.DatasetConfigPath(datasetID))
	}

	// =========================================================================
	// STEP 3: LOAD AND NORMALIZE SOURCES
	// =========================================================================
	// Each source is normalized on its own before concatenation, so a
	// duplicate text is only removed within the source it came from.

	result := &Result{DatasetID: datasetID}
	var tables []*tabular.Table
	combinedRows := 0

	for _, src := range ds.Sources {
		p.out.Header("Processing source: " + src.Platform)

		sr := SourceResult{Source: src}
		t, err := p.loadSource(ctx, src, datasetID)
		if err != nil {
			sr.Err = err
			result.Sources = append(result.Sources, sr)
			log.Warn("source skipped", "platform", src.Platform, "dataset", src.Dataset, "error", err)
			continue
		}

		p.out.Header("Normalizing data from " + src.Platform)
		cleaned, report := normalize.Normalize(t)
		report.Print(p.out, len(cleaned.Columns))

		sr.Rows = cleaned.Len()
		sr.Report = report
		result.Sources = append(result.Sources, sr)

		tables = append(tables, cleaned)
		combinedRows += cleaned.Len()
		if len(tables) > 1 {
			p.out.Header("Combining dataframes")
			p.out.Print(fmt.Sprintf("Combined rows: %d", combinedRows))
		}
	}

	if len(tables) == 0 {
		return result, apperr.New(apperr.ProcessingError, "No data was processed. Check your source configurations.").
			With("dataset_id", datasetID)
	}

	// =========================================================================
	// STEP 4: PERSIST
	// =========================================================================

	summary, err := persist.Persist(tables, p.cfg.Paths.ProcessedDir(datasetID), persist.Options{
		DatasetID:  datasetID,
		SampleSize: p.cfg.SampleSize,
		RunID:      logging.RunID(ctx),
	})
	if err != nil {
		return result, err
	}
	result.Summary = summary
	for _, w := range summary.Warnings {
		p.out.Warning(w)
		log.Warn("optional artifact skipped", "reason", w)
	}

	log.Info("dataset processed", "rows", summary.Rows, "columns", summary.Columns, "path", summary.ParquetPath)

	// =========================================================================
	// COMPLETE
	// =========================================================================

	p.out.DatasetProcessed(datasetID, summary.Stats())
	p.out.Guide("Next Steps", []string{
		fmt.Sprintf("Run 'meddata docs %s' to generate documentation", datasetID),
		fmt.Sprintf("Consider updating the dataset statistics in %s:", p.cfg.Paths.DatasetConfigPath(datasetID)),
		fmt.Sprintf("  - value: %d+", summary.Rows),
		"    label: Items",
		fmt.Sprintf("  - value: %d", summary.Columns),
		"    label: Fields",
	})

	return result, nil
}

// loadSource runs the processor for src and reports a failure.
func (p *Pipeline) loadSource(ctx context.Context, src config.Source, datasetID string) (*tabular.Table, error) {
	proc, ok := p.registry.Lookup(src.Platform)
	if !ok {
		p.out.Warning("Unknown platform: " + src.Platform)
		return nil, fmt.Errorf("unknown platform %q", src.Platform)
	}

	t, err := proc.Load(ctx, src, datasetID)
	if err != nil {
		p.out.Error("Error processing source "+src.Platform, err)
		if src.Platform == config.PlatformKaggle {
			p.out.Guide("Kaggle Authentication", []string{
				"Make sure your Kaggle API credentials are set up correctly",
				"Add KAGGLE_TOKEN to your .env file",
				"Or create a kaggle.json file with your API credentials",
				"Place it in ~/.kaggle/ directory or set KAGGLE_CONFIG_DIR environment variable",
			})
		}
		return nil, err
	}

	return t, nil
}
