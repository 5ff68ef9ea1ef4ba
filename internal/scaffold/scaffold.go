// =============================================================================
// MedData CLI - Dataset Scaffold
// =============================================================================
//
// This package implements `meddata init`: it validates a new dataset id,
// writes _datasets/<id>.yml from templates/dataset.yml.template, creates the
// site page dataset/<id>/index.md and optionally copies example documents.
//
// =============================================================================

package scaffold

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/doctor"
	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/pkg/utils"
	"gopkg.in/yaml.v3"
)

// TemplateName is the descriptor template inside the templates dir.
const TemplateName = "dataset.yml.template"

//go:embed templates/dataset.yml.template
var defaultTemplate []byte

var validID = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Example documents that can be copied into a new dataset directory, keyed
// by the flag that requests them.
const (
	DocLicense      = "license"
	DocChangelog    = "changelog"
	DocCitation     = "citation"
	DocCard         = "ds-card"
	DocContributing = "contributing"
	DocReadme       = "readme"
)

// DocFiles maps each document flag to its file name.
var DocFiles = map[string]string{
	DocLicense:      "LICENSE",
	DocChangelog:    "CHANGELOG.md",
	DocCitation:     "CITATION.cff",
	DocCard:         "dataset-card.md",
	DocContributing: "CONTRIBUTING.md",
	DocReadme:       "README.md",
}

// DocOrder is the order documents are copied in.
var DocOrder = []string{DocLicense, DocChangelog, DocCitation, DocCard, DocContributing, DocReadme}

// Options describes the dataset to create.
type Options struct {
	ID          string
	Name        string
	Description string

	// Docs lists document flags (DocLicense, ...) to copy.
	Docs []string
}

// Result lists what was written.
type Result struct {
	ConfigPath string
	IndexPath  string
	Docs       []string
}

// Scaffold creates new datasets.
type Scaffold struct {
	cfg *config.Config
	out printer.Printer

	// Now supplies the release date. Default: time.Now
	Now func() time.Time
}

// New creates a scaffold for the project.
func New(cfg *config.Config, out printer.Printer) *Scaffold {
	return &Scaffold{cfg: cfg, out: out, Now: time.Now}
}

// ValidateID checks that id is non-empty and uses only letters, digits and
// hyphens.
func ValidateID(id string) error {
	if !validID.MatchString(id) {
		return apperr.New(apperr.InvalidArgument, "invalid dataset ID: '%s'", id).
			With("dataset_id", id).
			WithRemedies("Use only alphanumeric characters and hyphens, e.g. 'medical-qa'")
	}
	return nil
}

// =============================================================================
// CREATE
// =============================================================================

// Create writes the descriptor and site page for a new dataset.
func (s *Scaffold) Create(opts Options) (*Result, error) {
	// =========================================================================
	// STEP 1: Validate the request
	// =========================================================================
	if err := ValidateID(opts.ID); err != nil {
		return nil, err
	}

	configPath := s.cfg.Paths.DatasetConfigPath(opts.ID)
	if utils.FileExists(configPath) {
		return nil, apperr.New(apperr.InvalidArgument, "dataset '%s' already exists at %s", opts.ID, configPath).
			With("dataset_id", opts.ID).
			With("config_path", configPath).
			WithRemedies("Choose a different dataset ID", "Edit the existing configuration instead")
	}

	// =========================================================================
	// STEP 2: Ensure directories and the descriptor template
	// =========================================================================
	if err := s.cfg.EnsureDirectories(); err != nil {
		return nil, apperr.FromFS(err, s.cfg.Paths.ProjectRoot, "creating directories")
	}

	tmpl, err := s.loadTemplate()
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 3: Render and write the descriptor
	// =========================================================================
	content := RenderDescriptor(tmpl, opts, s.Now())
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return nil, apperr.FromFS(err, configPath, "writing dataset file")
	}

	result := &Result{ConfigPath: configPath}

	// =========================================================================
	// STEP 4: Create the site page
	// =========================================================================
	datasetDir := s.cfg.Paths.SitePageDir(opts.ID)
	if err := os.MkdirAll(datasetDir, 0o755); err != nil {
		return nil, apperr.FromFS(err, datasetDir, "creating dataset directory")
	}

	index, err := IndexPage(opts)
	if err != nil {
		return nil, err
	}
	result.IndexPath = filepath.Join(datasetDir, "index.md")
	if err := os.WriteFile(result.IndexPath, []byte(index), 0o644); err != nil {
		return nil, apperr.FromFS(err, result.IndexPath, "writing dataset page")
	}

	// =========================================================================
	// STEP 5: Copy requested example documents
	// =========================================================================
	docs := doctor.New(s.cfg.Paths, s.out)
	for _, flag := range DocOrder {
		if !contains(opts.Docs, flag) {
			continue
		}
		name := DocFiles[flag]
		src, ok := docs.FindTemplate(name)
		if !ok {
			s.out.Warning("No template found for " + name)
			continue
		}
		dst := filepath.Join(datasetDir, name)
		if err := utils.CopyTemplate(src, dst, opts.ID); err != nil {
			return result, apperr.FromFS(err, dst, "copying "+name)
		}
		s.out.Success("Created " + dst)
		result.Docs = append(result.Docs, dst)
	}

	s.out.DatasetCreated(opts.ID, configPath)

	return result, nil
}

// loadTemplate reads the descriptor template, writing the default first
// when it is missing.
func (s *Scaffold) loadTemplate() (string, error) {
	path := filepath.Join(s.cfg.Paths.TemplatesDir, TemplateName)

	wrote, err := utils.WriteFileIfMissing(path, defaultTemplate, 0o644)
	if err != nil {
		return "", apperr.FromFS(err, path, "creating template file")
	}
	if wrote {
		s.out.Success("Created template: " + path)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperr.New(apperr.DataFileNotFound, "template file not found: %s", path).With("path", path)
	}
	if err != nil {
		return "", apperr.FromFS(err, path, "reading template file")
	}

	return string(data), nil
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderDescriptor substitutes the {{...}} placeholders of a descriptor
// template. Values are YAML-quoted only when they need it.
func RenderDescriptor(tmpl string, opts Options, now time.Time) string {
	r := strings.NewReplacer(
		"{{id}}", yamlScalar(opts.ID),
		"{{name}}", yamlScalar(opts.Name),
		"{{description}}", yamlScalar(opts.Description),
		"{{date}}", now.Format("2006-01-02"),
		"{{id_initial}}", yamlScalar(idInitial(opts.ID)),
	)
	return r.Replace(tmpl)
}

// IndexPage returns dataset/<id>/index.md with Jekyll front matter.
func IndexPage(opts Options) (string, error) {
	front := struct {
		Layout      string `yaml:"layout"`
		ID          string `yaml:"dataset_id"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	}{"dataset", opts.ID, opts.Name, opts.Description}

	data, err := yaml.Marshal(front)
	if err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}

	return fmt.Sprintf("---\n%s---\n\n# %s\n\n%s\n", data, opts.Name, opts.Description), nil
}

// yamlScalar renders s as an inline YAML scalar, plain when possible.
func yamlScalar(s string) string {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.ContainsAny(s, "\n\r") {
		node.Style = yaml.DoubleQuotedStyle
	}

	data, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Sprintf("%q", s)
	}
	return strings.TrimSuffix(string(data), "\n")
}

func idInitial(id string) string {
	r, _ := utf8.DecodeRuneInString(id)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
