// =============================================================================
// MedData CLI - Persister
// =============================================================================
//
// The persister writes the combined table of a dataset to its processed
// directory:
//
//   _data/processed/<id>/data.parquet   full table (written via temp + rename)
//   _data/processed/<id>/sample.csv     min(sample size, rows) random rows
//   _data/processed/<id>/sample.xlsx    the same sample as a worksheet
//   _data/processed/<id>/manifest.yml   run id, timestamp, counts, sources
//
// All four files are overwritten on every run. A failure to write
// sample.xlsx is reported in Summary.Warnings and does not fail the run.
//
// =============================================================================

package persist

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/internal/tabular"
	"gopkg.in/yaml.v3"
)

// Output file names inside the processed directory.
const (
	ParquetFile  = "data.parquet"
	SampleCSV    = "sample.csv"
	SampleXLSX   = "sample.xlsx"
	ManifestFile = "manifest.yml"
)

// sampleSheet is the worksheet name in sample.xlsx.
const sampleSheet = "sample"

// previewColumns is how many column names the summary lists.
const previewColumns = 5

// =============================================================================
// OPTIONS AND RESULTS
// =============================================================================

// Options controls a persist run.
type Options struct {
	DatasetID string

	// SampleSize caps the sample. Default: config.DefaultSampleSize
	SampleSize int

	// RunID identifies the run in the manifest. Default: a new UUID
	RunID string

	// Now returns the manifest timestamp. Default: time.Now
	Now func() time.Time

	// Rand picks sample rows. Default: a randomly seeded generator
	Rand *rand.Rand
}

// Summary describes the written artifacts.
type Summary struct {
	RunID        string
	Rows         int
	Columns      int
	ColumnNames  []string
	FileSize     int64
	ParquetPath  string
	SamplePath   string
	ManifestPath string

	// XLSXPath is empty when the worksheet could not be written.
	XLSXPath string

	// Warnings lists optional artifacts that were skipped.
	Warnings []string
}

// Manifest is the content of manifest.yml.
type Manifest struct {
	RunID     string    `yaml:"run_id"`
	DatasetID string    `yaml:"dataset_id"`
	CreatedAt time.Time `yaml:"created_at"`
	Rows      int       `yaml:"rows"`
	Columns   []string  `yaml:"columns"`
	Sample    int       `yaml:"sample_rows"`
	Sources   []string  `yaml:"sources"`
}

// =============================================================================
// PERSIST
// =============================================================================

// Persist concatenates tables in order and writes the artifacts into outDir.
//
// PARAMETERS:
//   - tables: the normalized per-source tables, in source order.
//   - outDir: the processed directory, created if needed.
//   - opts: run options.
//
// RETURNS:
//   - A Summary of the written files.
//   - A PermissionError when outDir cannot be written, or a wrapped I/O error.
func Persist(tables []*tabular.Table, outDir string, opts Options) (*Summary, error) {
	opts = withDefaults(opts)

	combined := tabular.Concat(tables...)
	if len(combined.Columns) == 0 {
		return nil, apperr.New(apperr.ProcessingError, "no columns to persist").
			With("dataset_id", opts.DatasetID)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, apperr.FromFS(err, outDir, "creating output directory")
	}

	s := &Summary{
		RunID:        opts.RunID,
		Rows:         combined.Len(),
		Columns:      len(combined.Columns),
		ColumnNames:  combined.Columns,
		ParquetPath:  filepath.Join(outDir, ParquetFile),
		SamplePath:   filepath.Join(outDir, SampleCSV),
		XLSXPath:     filepath.Join(outDir, SampleXLSX),
		ManifestPath: filepath.Join(outDir, ManifestFile),
	}

	// =========================================================================
	// STEP 1: PARQUET
	// =========================================================================

	if err := tabular.WriteParquetFile(s.ParquetPath, combined); err != nil {
		return nil, wrapWrite(err, s.ParquetPath)
	}

	info, err := os.Stat(s.ParquetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", s.ParquetPath, err)
	}
	s.FileSize = info.Size()

	// =========================================================================
	// STEP 2: SAMPLES
	// =========================================================================

	sample := Sample(combined, opts.SampleSize, opts.Rand)

	if err := tabular.WriteCSVFile(s.SamplePath, sample); err != nil {
		return nil, wrapWrite(err, s.SamplePath)
	}
	if err := tabular.WriteXLSXFile(s.XLSXPath, sampleSheet, sample); err != nil {
		// sample.xlsx is a convenience copy of sample.csv; a stale one from an
		// earlier run must not survive.
		os.Remove(s.XLSXPath)
		s.Warnings = append(s.Warnings, fmt.Sprintf("Skipped %s: %v", SampleXLSX, err))
		s.XLSXPath = ""
	}

	// =========================================================================
	// STEP 3: MANIFEST
	// =========================================================================

	m := Manifest{
		RunID:     opts.RunID,
		DatasetID: opts.DatasetID,
		CreatedAt: opts.Now().UTC().Truncate(time.Second),
		Rows:      combined.Len(),
		Columns:   combined.Columns,
		Sample:    sample.Len(),
		Sources:   sourcesOf(tables),
	}
	if err := writeManifest(s.ManifestPath, m); err != nil {
		return nil, wrapWrite(err, s.ManifestPath)
	}

	return s, nil
}

func withDefaults(opts Options) Options {
	if opts.SampleSize <= 0 {
		opts.SampleSize = config.DefaultSampleSize
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return opts
}

// Sample returns min(n, rows) rows drawn without replacement. Selected rows
// keep their relative order.
func Sample(t *tabular.Table, n int, rng *rand.Rand) *tabular.Table {
	out := &tabular.Table{Columns: t.Columns, Source: t.Source}
	if n >= t.Len() {
		out.Rows = t.Rows
		return out
	}

	picked := rng.Perm(t.Len())[:n]
	sort.Ints(picked)

	out.Rows = make([]tabular.Record, n)
	for i, idx := range picked {
		out.Rows[i] = t.Rows[idx]
	}
	return out
}

func sourcesOf(tables []*tabular.Table) []string {
	var out []string
	for _, t := range tables {
		if t != nil && t.Source != "" {
			out = append(out, t.Source)
		}
	}
	return out
}

func writeManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func wrapWrite(err error, path string) error {
	if e := apperr.FromFS(err, path, "saving processed dataset"); apperr.Is(e, apperr.PermissionError) {
		return e
	}
	return fmt.Errorf("failed to write %s: %w", path, err)
}

// =============================================================================
// PRESENTATION
// =============================================================================

// Stats returns the ordered summary shown after processing.
func (s *Summary) Stats() []printer.Stat {
	names := s.ColumnNames
	more := ""
	if len(names) > previewColumns {
		names = names[:previewColumns]
		more = ", ..."
	}

	return []printer.Stat{
		{Label: "Total rows", Value: fmt.Sprint(s.Rows)},
		{Label: "Columns", Value: fmt.Sprint(s.Columns)},
		{Label: "File size", Value: fmt.Sprintf("%.2f MB", float64(s.FileSize)/(1024*1024))},
		{Label: "Column names", Value: strings.Join(names, ", ") + more},
		{Label: "Sample path", Value: s.SamplePath},
		{Label: "Parquet path", Value: s.ParquetPath},
		{Label: "Run id", Value: s.RunID},
	}
}
