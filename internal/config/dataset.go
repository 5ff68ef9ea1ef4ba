// =============================================================================
// MedData CLI - Dataset Descriptor
// =============================================================================
//
// Each dataset is described by a YAML file in _datasets/<id>.yml. The
// descriptor is created by `meddata init`, edited by hand, and read by every
// downstream command. It is never deleted or rewritten programmatically.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"gopkg.in/yaml.v3"
)

// Dataset lifecycle states.
const (
	StatusDevelopment = "development"
	StatusPublished   = "published"
)

// DatasetConfig is the canonical per-dataset metadata record.
type DatasetConfig struct {
	// ID is the unique identifier (letters, digits and hyphens).
	ID string `yaml:"id"`

	// Name is the human-readable dataset name.
	Name string `yaml:"name"`

	// Description is a short summary used on the site and in docs.
	Description string `yaml:"description"`

	// Status is "development" or "published".
	Status string `yaml:"status"`

	// ReleaseDate is kept as the literal YYYY-MM-DD text.
	ReleaseDate string `yaml:"release_date"`

	ExpectedUpdate string `yaml:"expected_update,omitempty"`

	Logo       Logo         `yaml:"logo"`
	Stats      []Stat       `yaml:"stats"`
	Sources    []Source     `yaml:"sources"`
	Publishing []Publishing `yaml:"publishing"`
	Features   []Feature    `yaml:"features"`

	// Citation overrides the default author placeholders in CITATION.cff.
	Citation Citation `yaml:"citation,omitempty"`
}

// Logo drives SVG logo generation.
type Logo struct {
	Text       string     `yaml:"text"`
	Background string     `yaml:"background"`
	Colors     LogoColors `yaml:"colors"`
}

// LogoColors holds the two brand colors of a logo.
type LogoColors struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// Stat is a headline statistic, e.g. {value: 50K+, label: Items}.
type Stat struct {
	Value StatValue `yaml:"value"`
	Label string    `yaml:"label"`
}

// StatValue keeps the literal scalar and whether YAML typed it as an
// integer, so `500` and `"500"` remain distinguishable.
type StatValue struct {
	Raw   string
	IsInt bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *StatValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("stat value must be a scalar, got %v", node.Tag)
	}
	v.Raw = node.Value
	v.IsInt = node.ShortTag() == "!!int"
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v StatValue) MarshalYAML() (any, error) {
	if v.IsInt {
		if n, ok := v.Int(); ok {
			return n, nil
		}
	}
	return v.Raw, nil
}

// Int returns the integer value when the stat was written as an integer.
func (v StatValue) Int() (int64, bool) {
	if !v.IsInt {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(v.Raw, "_", ""), 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v StatValue) String() string {
	return v.Raw
}

// Source is a platform from which raw data is pulled.
type Source struct {
	// Platform is "kaggle" or "huggingface".
	Platform string `yaml:"platform"`

	// Dataset is the platform-specific identifier ("owner/slug").
	Dataset string `yaml:"dataset"`

	// File names the data file inside a Kaggle archive.
	File string `yaml:"file,omitempty"`

	// Split is the Hugging Face split to load. Default: "train"
	Split string `yaml:"split,omitempty"`
}

// Publishing is a platform to which processed data and docs are pushed.
type Publishing struct {
	Platform   string `yaml:"platform"`
	Repository string `yaml:"repository"`

	// URL is informational only and never validated.
	URL string `yaml:"url,omitempty"`
}

// ResolvedURL returns the configured URL or the platform's canonical one.
func (p Publishing) ResolvedURL() string {
	if p.URL != "" {
		return p.URL
	}
	switch p.Platform {
	case PlatformHuggingFace:
		return "https://huggingface.co/datasets/" + p.Repository
	case PlatformGitHub:
		return "https://github.com/" + p.Repository
	}
	return ""
}

// Feature is a highlighted dataset feature shown on the site and in docs.
type Feature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Citation holds author metadata for CITATION.cff.
type Citation struct {
	FamilyNames string `yaml:"family_names,omitempty"`
	GivenNames  string `yaml:"given_names,omitempty"`
	ORCID       string `yaml:"orcid,omitempty"`
}

// PublishingFor returns the first publishing target for a platform.
func (d *DatasetConfig) PublishingFor(platform string) (Publishing, bool) {
	for _, p := range d.Publishing {
		if p.Platform == platform {
			return p, true
		}
	}
	return Publishing{}, false
}

// =============================================================================
// LOADING
// =============================================================================

// LoadDataset reads and validates _datasets/<id>.yml.
func LoadDataset(paths Paths, id string) (*DatasetConfig, error) {
	configPath := paths.DatasetConfigPath(id)

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.New(apperr.DatasetConfigError, "dataset configuration not found: %s", configPath).
			With("dataset_id", id).
			With("config_path", configPath)
	}
	if err != nil {
		return nil, apperr.FromFS(err, configPath, "reading dataset configuration")
	}

	var ds DatasetConfig
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, apperr.Wrap(apperr.DatasetConfigError, err, "invalid YAML in configuration file: %s", configPath).
			With("dataset_id", id).
			With("config_path", configPath)
	}

	if err := validateDataset(&ds); err != nil {
		return nil, apperr.Wrap(apperr.DatasetConfigError, err, "invalid dataset configuration").
			With("dataset_id", id).
			With("config_path", configPath)
	}

	return &ds, nil
}

// validateDataset checks required fields and applies defaults.
func validateDataset(ds *DatasetConfig) error {
	var missing []string
	if ds.ID == "" {
		missing = append(missing, "id")
	}
	if ds.Name == "" {
		missing = append(missing, "name")
	}
	if ds.Description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	switch ds.Status {
	case "":
		ds.Status = StatusDevelopment
	case StatusDevelopment, StatusPublished:
	default:
		return fmt.Errorf("status must be %q or %q, got %q", StatusDevelopment, StatusPublished, ds.Status)
	}

	for i := range ds.Sources {
		if ds.Sources[i].Platform == PlatformHuggingFace && ds.Sources[i].Split == "" {
			ds.Sources[i].Split = "train"
		}
	}

	return nil
}

// ListDatasetIDs returns the ids of every descriptor in the datasets dir.
func ListDatasetIDs(paths Paths) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(paths.DatasetsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset configs: %w", err)
	}

	ids := make([]string, 0, len(files))
	for _, f := range files {
		ids = append(ids, strings.TrimSuffix(filepath.Base(f), ".yml"))
	}
	sort.Strings(ids)

	return ids, nil
}
