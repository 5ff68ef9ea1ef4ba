// =============================================================================
// MedData CLI - Documentation Generator
// =============================================================================
//
// The generator renders the four documentation artifacts of a dataset into
// docs/<id>/:
//
//   README.md        from templates/dataset-readme.md.template
//   dataset-card.md  from templates/dataset-card.md.template
//   CITATION.cff     from templates/citation.cff.template
//   LICENSE          fixed MIT text
//
// Templates use $name or ${name} placeholders; $$ is a literal dollar sign.
// Missing templates are written from the built-in defaults first, so users
// can edit them. Every artifact is regenerated in full on each run.
//
// =============================================================================

package docgen

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/printer"
)

//go:embed templates
var defaults embed.FS

// Template file names inside the templates directory.
const (
	ReadmeTemplate   = "dataset-readme.md.template"
	CardTemplate     = "dataset-card.md.template"
	CitationTemplate = "citation.cff.template"
)

// Artifact file names inside docs/<id>.
const (
	ReadmeFile   = "README.md"
	CardFile     = "dataset-card.md"
	CitationFile = "CITATION.cff"
	LicenseFile  = "LICENSE"
)

// Citation defaults used when the descriptor has no citation block.
const (
	DefaultAuthorFamilyName = "Alaamer"
	DefaultContact          = "Alaamer"
)

// Artifact is one generated document.
type Artifact struct {
	// Kind is the display name, e.g. "Dataset Card".
	Kind string
	Path string

	// Missing lists placeholders the template used but no variable
	// provided; they are left in the output as written.
	Missing []string
}

// Generator renders documentation.
type Generator struct {
	paths config.Paths
	out   printer.Printer

	// Now supplies the update and release dates. Default: time.Now
	Now func() time.Time
}

// New creates a Generator.
func New(paths config.Paths, out printer.Printer) *Generator {
	return &Generator{paths: paths, out: out, Now: time.Now}
}

// =============================================================================
// TEMPLATES
// =============================================================================

// EnsureTemplates writes any missing default template into the templates
// directory and returns the paths it created. Existing templates are kept.
func (g *Generator) EnsureTemplates() ([]string, error) {
	if err := os.MkdirAll(g.paths.TemplatesDir, 0o755); err != nil {
		return nil, apperr.FromFS(err, g.paths.TemplatesDir, "creating templates directory")
	}

	var created []string
	for _, name := range []string{ReadmeTemplate, CardTemplate, CitationTemplate} {
		path := filepath.Join(g.paths.TemplatesDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return created, fmt.Errorf("failed to stat template %s: %w", path, err)
		}

		data, err := defaults.ReadFile("templates/" + name)
		if err != nil {
			return created, fmt.Errorf("failed to read built-in template %s: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return created, apperr.FromFS(err, path, "writing template")
		}

		created = append(created, path)
		g.out.Success("Created template: " + path)
	}

	return created, nil
}

func (g *Generator) readTemplate(name string) (string, error) {
	path := filepath.Join(g.paths.TemplatesDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperr.FromFS(err, path, "reading template")
	}
	return string(data), nil
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate renders all artifacts for ds into docs/<id>.
func (g *Generator) Generate(ds *config.DatasetConfig) ([]Artifact, error) {
	g.out.Header("Generating documentation for dataset: " + ds.ID)

	if _, err := g.EnsureTemplates(); err != nil {
		return nil, err
	}

	outDir := g.paths.DocsOutputDir(ds.ID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, apperr.FromFS(err, outDir, "creating docs directory")
	}

	now := g.Now()
	jobs := []struct {
		kind, template, file string
		vars                 map[string]string
	}{
		{"README", ReadmeTemplate, ReadmeFile, ReadmeVars(ds, now)},
		{"Dataset Card", CardTemplate, CardFile, CardVars(ds)},
		{"Citation", CitationTemplate, CitationFile, CitationVars(ds, now)},
	}

	var artifacts []Artifact
	for _, job := range jobs {
		g.out.Header(fmt.Sprintf("Generating %s for %s...", strings.ToLower(job.kind), ds.ID))

		tmpl, err := g.readTemplate(job.template)
		if err != nil {
			return artifacts, err
		}

		res := Render(tmpl, job.vars)
		if !res.Complete() {
			g.out.Warning(fmt.Sprintf("Missing template variable(s) in %s: %s", job.template, strings.Join(res.Missing, ", ")))
		}

		path := filepath.Join(outDir, job.file)
		if err := os.WriteFile(path, []byte(res.Text), 0o644); err != nil {
			return artifacts, apperr.FromFS(err, path, "writing "+job.file)
		}

		g.out.Success(fmt.Sprintf("Generated %s: %s", strings.ToLower(job.kind), path))
		artifacts = append(artifacts, Artifact{Kind: job.kind, Path: path, Missing: res.Missing})
	}

	license, err := g.writeLicense(outDir)
	if err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, license)

	rows := make([][]string, len(artifacts))
	for i, a := range artifacts {
		rows[i] = []string{a.Kind, a.Path}
	}
	g.out.Success("Documentation generation complete for " + ds.ID + "!")
	g.out.Table([]string{"Document Type", "Path"}, rows, "Generated Files")

	return artifacts, nil
}

func (g *Generator) writeLicense(outDir string) (Artifact, error) {
	data, err := defaults.ReadFile("templates/LICENSE")
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read built-in license: %w", err)
	}

	path := filepath.Join(outDir, LicenseFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, apperr.FromFS(err, path, "writing LICENSE")
	}

	g.out.Success("Generated license: " + path)
	return Artifact{Kind: "License", Path: path}, nil
}

// =============================================================================
// TEMPLATE VARIABLES
// =============================================================================

// ReadmeVars returns the README variables.
func ReadmeVars(ds *config.DatasetConfig, now time.Time) map[string]string {
	size := "Unknown"
	if v, ok := SizeStat(ds.Stats); ok {
		size = v.String()
	}

	var hfURL, hfRepo, ghURL string
	for _, p := range ds.Publishing {
		switch p.Platform {
		case config.PlatformHuggingFace:
			hfURL, hfRepo = p.ResolvedURL(), p.Repository
		case config.PlatformGitHub:
			ghURL = p.ResolvedURL()
		}
	}

	return map[string]string{
		"name":             ds.Name,
		"description":      ds.Description,
		"huggingface_url":  hfURL,
		"github_url":       ghURL,
		"huggingface_repo": hfRepo,
		"size":             size,
		"format":           "Parquet/CSV",
		"updated":          now.Format(time.DateOnly),
		"features":         featureList(ds.Features),
		"citation":         "Please see CITATION.cff file",
		"license":          "MIT License",
	}
}

// CardVars returns the dataset card variables.
func CardVars(ds *config.DatasetConfig) map[string]string {
	size := SizeUnknown
	if v, ok := SizeStat(ds.Stats); ok {
		size = SizeCategory(v)
	}

	repoURL := ""
	if p, ok := ds.PublishingFor(config.PlatformHuggingFace); ok {
		repoURL = p.ResolvedURL()
	}

	return map[string]string{
		"name":             ds.Name,
		"description":      ds.Description,
		"repository_url":   repoURL,
		"size_category":    size,
		"contact":          DefaultContact,
		"tasks":            "This dataset is suitable for text classification, topic analysis, content analysis, and text generation tasks.",
		"structure":        "The dataset contains the full text of articles along with metadata.",
		"data_instances":   "Each instance represents an article with its content and associated metadata.",
		"data_fields":      "The dataset includes fields such as title, content, author, and publication date.",
		"data_splits":      "The dataset is provided as a single train split.",
		"dataset_creation": "The dataset was collected from public web sources and processed for research purposes.",
		"considerations":   "The dataset contains publicly available content. Users should respect copyright and terms of use.",
		"citation":         "Please see the citation information in the CITATION.cff file.",
		"contributions":    "Thanks to the MedData Engineering Hub team for preparing and publishing this dataset.",
	}
}

// CitationVars returns the CITATION.cff variables. The repository URL
// prefers the Hugging Face target and falls back to GitHub.
func CitationVars(ds *config.DatasetConfig, now time.Time) map[string]string {
	repoURL := ""
	if p, ok := ds.PublishingFor(config.PlatformHuggingFace); ok {
		repoURL = p.ResolvedURL()
	} else if p, ok := ds.PublishingFor(config.PlatformGitHub); ok {
		repoURL = p.ResolvedURL()
	}

	releaseDate := ds.ReleaseDate
	if releaseDate == "" {
		releaseDate = now.Format(time.DateOnly)
	}
	releaseYear := fmt.Sprint(now.Year())
	if year, _, ok := strings.Cut(releaseDate, "-"); ok && year != "" {
		releaseYear = year
	}

	family := ds.Citation.FamilyNames
	if family == "" {
		family = DefaultAuthorFamilyName
	}

	return map[string]string{
		"name":               ds.Name,
		"repository_url":     repoURL,
		"author_family_name": family,
		"author_given_name":  ds.Citation.GivenNames,
		"author_orcid":       ds.Citation.ORCID,
		"release_date":       releaseDate,
		"release_year":       releaseYear,
	}
}

func featureList(features []config.Feature) string {
	lines := make([]string, 0, len(features))
	for _, f := range features {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", f.Title, f.Description))
	}
	return strings.Join(lines, "\n")
}
