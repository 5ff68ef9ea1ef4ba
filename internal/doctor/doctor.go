// =============================================================================
// MedData CLI - Doctor
// =============================================================================
//
// The doctor checks that a dataset directory holds every file a platform
// needs before publishing, and optionally fills the gaps from the example
// documents in example-docs/.
//
// WORKFLOW:
//   1. Locate the dataset directory (dataset/<id>, docs/<id>, _datasets/<id>)
//   2. Build the required-file list for the selected platforms
//   3. Report missing files in a table
//   4. Fail, or copy example templates when fixing
//
// =============================================================================

package doctor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/pkg/utils"
)

// Platform keys accepted by Options.Platforms.
const (
	HuggingFace = "hf"
	Kaggle      = "kg"
)

// requiredDocs lists the documents each platform needs, relative to the
// dataset directory.
var requiredDocs = map[string][]string{
	HuggingFace: {"README.md", "dataset-card.md", "CITATION.cff", "LICENSE", "CHANGELOG.md"},
	Kaggle:      {filepath.Join(".kaggle", "README.md"), "dataset-card.md", "LICENSE", "CHANGELOG.md"},
}

// templateDirs are searched in order for a missing document.
var templateDirs = []string{"huggingface", "kaggle"}

// Options selects what the doctor checks.
type Options struct {
	// Platforms holds HuggingFace and/or Kaggle. Empty means both.
	Platforms []string

	// Fix copies missing documents from the example templates.
	Fix bool
}

// Required is a file the dataset needs.
type Required struct {
	// Path is absolute.
	Path string

	// Rel is the path shown to the user and used to find a template.
	Rel string

	// Data marks processed artifacts that are never generated.
	Data bool
}

// Report is the outcome of a check.
type Report struct {
	Dir      string
	Required []Required
	Missing  []Required
	Fixed    []string
	NoFix    []string
}

// Doctor checks dataset directories.
type Doctor struct {
	paths config.Paths
	out   printer.Printer
}

// New creates a doctor for the project.
func New(paths config.Paths, out printer.Printer) *Doctor {
	return &Doctor{paths: paths, out: out}
}

// =============================================================================
// CHECK
// =============================================================================

// Check validates the dataset's files for the selected platforms.
//
// RETURNS:
//   - The report, also on failure, so callers can inspect what was missing
//   - DatasetDirNotFound when no candidate directory exists
//   - DataFileNotFound listing the missing files when not fixing
func (d *Doctor) Check(id string, opts Options) (*Report, error) {
	dir, err := d.FindDir(id)
	if err != nil {
		return nil, err
	}
	d.out.Print("Checking dataset directory: " + dir)

	report := &Report{Dir: dir, Required: d.requiredFiles(dir, id, opts.Platforms)}
	for _, req := range report.Required {
		if !utils.FileExists(req.Path) {
			report.Missing = append(report.Missing, req)
		}
	}

	if len(report.Missing) == 0 {
		d.out.Success("All required files exist. Dataset is ready for publishing!")
		return report, nil
	}

	rows := make([][]string, 0, len(report.Missing))
	for _, m := range report.Missing {
		rows = append(rows, []string{m.Rel, "missing"})
	}
	d.out.Table([]string{"File", "Status"}, rows, "Missing Files")

	if !opts.Fix {
		names := make([]string, 0, len(report.Missing))
		for _, m := range report.Missing {
			names = append(names, m.Rel)
		}
		return report, apperr.New(apperr.DataFileNotFound, "%d required file(s) missing for dataset %s", len(names), id).
			With("dataset_id", id).
			With("dir", dir).
			WithDetails(names...).
			WithRemedies(
				fmt.Sprintf("Run 'meddata doctor %s --fix' to create the missing documents from templates", id),
				fmt.Sprintf("Run 'meddata process %s' to create the processed data file", id),
			)
	}

	d.fix(id, report)

	d.out.Success("All required files exist. Dataset is ready for publishing!")
	d.out.Warning("Please review and customise the generated templates before publishing.")

	return report, nil
}

// FindDir returns the first existing dataset directory.
func (d *Doctor) FindDir(id string) (string, error) {
	candidates := []string{
		d.paths.SitePageDir(id),
		d.paths.DocsOutputDir(id),
		filepath.Join(d.paths.DatasetsDir, id),
	}
	for _, dir := range candidates {
		if utils.DirExists(dir) {
			return dir, nil
		}
	}

	return "", apperr.New(apperr.DatasetDirNotFound, "no directory found for dataset %s", id).
		With("dataset_id", id).
		WithDetails(candidates...)
}

// requiredFiles expands the platform selection into a de-duplicated list.
func (d *Doctor) requiredFiles(dir, id string, platforms []string) []Required {
	if len(platforms) == 0 {
		platforms = []string{HuggingFace, Kaggle}
	}

	seen := make(map[string]bool)
	var out []Required
	add := func(r Required) {
		if seen[r.Path] {
			return
		}
		seen[r.Path] = true
		out = append(out, r)
	}

	for _, p := range []string{HuggingFace, Kaggle} {
		if !contains(platforms, p) {
			continue
		}
		for _, rel := range requiredDocs[p] {
			add(Required{Path: filepath.Join(dir, rel), Rel: rel})
		}
		if p == HuggingFace {
			parquet := d.paths.ParquetPath(id)
			rel, err := filepath.Rel(d.paths.ProjectRoot, parquet)
			if err != nil {
				rel = parquet
			}
			add(Required{Path: parquet, Rel: rel, Data: true})
		}
	}

	return out
}

// =============================================================================
// FIX
// =============================================================================

func (d *Doctor) fix(id string, report *Report) {
	for _, m := range report.Missing {
		if m.Data || strings.HasSuffix(m.Path, ".parquet") {
			d.out.Warning(fmt.Sprintf("Skipping %s: run 'meddata process %s' to create it", m.Rel, id))
			report.NoFix = append(report.NoFix, m.Rel)
			continue
		}

		src, ok := d.FindTemplate(m.Rel)
		if !ok {
			d.out.Warning("No template found for " + m.Rel)
			report.NoFix = append(report.NoFix, m.Rel)
			continue
		}

		if err := utils.CopyTemplate(src, m.Path, id); err != nil {
			d.out.Error("Failed to create "+m.Rel, err)
			report.NoFix = append(report.NoFix, m.Rel)
			continue
		}

		d.out.Success("Created " + m.Rel)
		report.Fixed = append(report.Fixed, m.Rel)
	}
}

// FindTemplate locates the example document for rel, preferring the
// Hugging Face set.
func (d *Doctor) FindTemplate(rel string) (string, bool) {
	for _, sub := range templateDirs {
		src := filepath.Join(d.paths.ExampleDocsDir, sub, rel)
		if utils.FileExists(src) {
			return src, true
		}
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
