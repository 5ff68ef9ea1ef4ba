// =============================================================================
// MedData CLI - Asset Generator
// =============================================================================
//
// This package renders the per-dataset SVG logos and copies the site favicon.
//
// INPUTS:
//   assets/templates/dataset-logo.svg  - $DATASET_ID, $LOGO_TEXT,
//                                        $BACKGROUND_SHAPE, $PRIMARY_COLOR,
//                                        $SECONDARY_COLOR
//   assets/templates/favicon.svg       - copied as is
//
// OUTPUTS:
//   assets/images/<id>-logo.svg
//   assets/images/favicon.svg
//   assets/images/logo.svg
//
// =============================================================================

package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/docgen"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/pkg/utils"
)

// Logo defaults used when a descriptor leaves a field empty.
const (
	DefaultBackground     = "circle"
	DefaultPrimaryColor   = "#6366f1"
	DefaultSecondaryColor = "#14b8a6"
)

const (
	logoTemplate    = "dataset-logo.svg"
	faviconTemplate = "favicon.svg"
)

// Report summarizes a generation run.
type Report struct {
	Logos  []string
	Failed map[string]error
}

// Generator writes site assets.
type Generator struct {
	paths config.Paths
	out   printer.Printer
}

// New creates an asset generator.
func New(paths config.Paths, out printer.Printer) *Generator {
	return &Generator{paths: paths, out: out}
}

func (g *Generator) templatesDir() string {
	return filepath.Join(g.paths.AssetsDir, "templates")
}

func (g *Generator) imagesDir() string {
	return filepath.Join(g.paths.AssetsDir, "images")
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate renders logos for the given datasets, or for every descriptor
// when ids is empty, then copies the favicon.
//
// A dataset that fails is reported and skipped. The returned error is set
// when an explicitly requested dataset failed or the favicon could not be
// copied.
func (g *Generator) Generate(ids []string) (*Report, error) {
	explicit := len(ids) > 0
	if !explicit {
		all, err := config.ListDatasetIDs(g.paths)
		if err != nil {
			return nil, err
		}
		ids = all
	}

	if err := os.MkdirAll(g.imagesDir(), 0o755); err != nil {
		return nil, apperr.FromFS(err, g.imagesDir(), "creating image directory")
	}

	report := &Report{Failed: make(map[string]error)}
	for _, id := range ids {
		path, err := g.Logo(id)
		if err != nil {
			g.out.Error("Error processing "+id, err)
			report.Failed[id] = err
			continue
		}
		report.Logos = append(report.Logos, path)
	}

	if err := g.Favicon(); err != nil {
		return report, err
	}

	g.out.Success(fmt.Sprintf("Asset generation complete! Processed %d datasets.", len(report.Logos)))

	if explicit && len(report.Failed) > 0 {
		failed := make([]string, 0, len(report.Failed))
		for _, id := range ids {
			if _, ok := report.Failed[id]; ok {
				failed = append(failed, id)
			}
		}
		return report, apperr.New(apperr.ProcessingError, "failed to generate assets for %s", strings.Join(failed, ", "))
	}

	return report, nil
}

// Logo renders assets/images/<id>-logo.svg. Every template placeholder
// must resolve.
func (g *Generator) Logo(id string) (string, error) {
	ds, err := config.LoadDataset(g.paths, id)
	if err != nil {
		return "", err
	}

	tmplPath := filepath.Join(g.templatesDir(), logoTemplate)
	tmpl, err := os.ReadFile(tmplPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperr.New(apperr.DataFileNotFound, "logo template not found: %s", tmplPath).With("path", tmplPath)
		}
		return "", apperr.FromFS(err, tmplPath, "reading logo template")
	}

	res := docgen.Render(string(tmpl), LogoVars(ds))
	if err := res.Err(); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", tmplPath, err)
	}

	outPath := filepath.Join(g.imagesDir(), ds.ID+"-logo.svg")
	if err := os.WriteFile(outPath, []byte(res.Text), 0o644); err != nil {
		return "", apperr.FromFS(err, outPath, "writing logo")
	}

	g.out.Success("Generated logo: " + outPath)
	return outPath, nil
}

// Favicon copies the favicon template to images/favicon.svg and
// images/logo.svg.
func (g *Generator) Favicon() error {
	src := filepath.Join(g.templatesDir(), faviconTemplate)
	if !utils.FileExists(src) {
		return apperr.New(apperr.DataFileNotFound, "favicon template not found: %s", src).With("path", src)
	}

	for _, name := range []string{"favicon.svg", "logo.svg"} {
		dst := filepath.Join(g.imagesDir(), name)
		if err := utils.CopyFile(src, dst); err != nil {
			return apperr.FromFS(err, dst, "writing "+name)
		}
		g.out.Success("Generated " + strings.TrimSuffix(name, ".svg") + ": " + dst)
	}

	return nil
}

// LogoVars returns the logo template variables with defaults applied.
func LogoVars(ds *config.DatasetConfig) map[string]string {
	text := ds.Logo.Text
	if text == "" && ds.ID != "" {
		text = strings.ToUpper(ds.ID[:1])
	}

	return map[string]string{
		"DATASET_ID":       ds.ID,
		"LOGO_TEXT":        text,
		"BACKGROUND_SHAPE": orDefault(ds.Logo.Background, DefaultBackground),
		"PRIMARY_COLOR":    orDefault(ds.Logo.Colors.Primary, DefaultPrimaryColor),
		"SECONDARY_COLOR":  orDefault(ds.Logo.Colors.Secondary, DefaultSecondaryColor),
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
