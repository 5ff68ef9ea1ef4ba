// =============================================================================
// MedData CLI - Configuration Module
// =============================================================================
//
// This module resolves every filesystem path the tool uses and loads API
// tokens from the environment file. A single *Config is constructed once at
// process start (see cmd/root.go) and passed explicitly to each component.
//
// CONFIGURATION SOURCES (highest precedence first):
//   1. The .env file in the project root (or --env-file)
//   2. The process environment
//   3. The optional project file meddata.yaml
//   4. Built-in defaults
//
// PROJECT LAYOUT:
//   _datasets/<id>.yml                     dataset descriptors
//   _data/raw/<id>/<platform>/...          downloads
//   _data/processed/<id>/data.parquet      processed artifact
//   docs/<id>/...                          generated documentation
//   dataset/<id>/...                       site pages and doctor-checked docs
//   example-docs/{huggingface,kaggle}/...  example templates for doctor --fix
//   templates/                             document templates
//   assets/{templates,images}/             logo templates and output
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// PLATFORMS
// =============================================================================

const (
	PlatformKaggle      = "kaggle"
	PlatformHuggingFace = "huggingface"
	PlatformGitHub      = "github"
)

// ProjectFileName is the optional per-project settings file.
const ProjectFileName = "meddata.yaml"

// DefaultSampleSize bounds the CSV sample written next to the processed data.
const DefaultSampleSize = 1000

// =============================================================================
// PROJECT FILE STRUCTURE
// =============================================================================

// ProjectFile mirrors meddata.yaml. Every field is optional; unset fields
// fall back to the defaults applied in applyProjectDefaults.
type ProjectFile struct {
	// =========================================================================
	// DIRECTORY SETTINGS (relative to the project root)
	// =========================================================================

	DatasetsDir      string `yaml:"datasets_dir"`
	TemplatesDir     string `yaml:"templates_dir"`
	DataDir          string `yaml:"data_dir"`
	RawDataDir       string `yaml:"raw_data_dir"`
	ProcessedDataDir string `yaml:"processed_data_dir"`
	DocsDir          string `yaml:"docs_dir"`
	SiteDir          string `yaml:"site_dir"`
	ExampleDocsDir   string `yaml:"example_docs_dir"`
	AssetsDir        string `yaml:"assets_dir"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// SampleSize is the maximum number of rows in sample.csv.
	// Default: 1000
	SampleSize int `yaml:"sample_size"`

	// =========================================================================
	// SERVICE ENDPOINTS
	// =========================================================================

	Endpoints Endpoints `yaml:"endpoints"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of diagnostics on stderr.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects "text" or "json" log output.
	LogFormat string `yaml:"log_format"`
}

// Endpoints holds base URLs of the vendor services. Tests point these at
// local fakes.
type Endpoints struct {
	HuggingFace    string `yaml:"huggingface"`
	DatasetsServer string `yaml:"datasets_server"`
	Kaggle         string `yaml:"kaggle"`
}

// =============================================================================
// RESOLVED CONFIGURATION
// =============================================================================

// Paths holds absolute project paths.
type Paths struct {
	ProjectRoot      string
	DatasetsDir      string
	TemplatesDir     string
	DataDir          string
	RawDataDir       string
	ProcessedDataDir string
	DocsDir          string
	SiteDir          string
	ExampleDocsDir   string
	AssetsDir        string
}

// Tokens holds API tokens. Empty means not configured.
type Tokens struct {
	HuggingFace string
	Kaggle      string
	GitHub      string
}

// KaggleSettings holds Kaggle-specific credential settings.
type KaggleSettings struct {
	// Username pairs with Tokens.Kaggle for API authentication.
	Username string

	// ConfigDir holds kaggle.json. Default: ~/.kaggle
	ConfigDir string
}

// Config is the process-wide configuration, read-only after Load.
type Config struct {
	Paths      Paths
	Tokens     Tokens
	Kaggle     KaggleSettings
	Endpoints  Endpoints
	SampleSize int
	LogLevel   string
	LogFormat  string

	// EnvFile is the environment file that was consulted.
	EnvFile string

	env map[string]string
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Root is the project root. Default: current directory.
	Root string

	// EnvFile overrides <root>/.env.
	EnvFile string
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load builds the configuration.
//
// A missing .env file or meddata.yaml is not an error; an unreadable or
// malformed one is.
func Load(opts LoadOptions) (*Config, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = filepath.Join(root, ".env")
	}

	env, err := loadEnv(envFile)
	if err != nil {
		return nil, err
	}

	project, err := loadProjectFile(filepath.Join(root, ProjectFileName))
	if err != nil {
		return nil, err
	}
	applyProjectDefaults(project)

	cfg := &Config{
		Paths:      resolvePaths(root, project),
		SampleSize: project.SampleSize,
		LogLevel:   project.LogLevel,
		LogFormat:  project.LogFormat,
		EnvFile:    envFile,
		env:        env,
	}

	cfg.Tokens = Tokens{
		HuggingFace: cfg.firstEnv("HF_TOKEN", "HUGGINGFACE_TOKEN"),
		Kaggle:      cfg.firstEnv("KAGGLE_TOKEN", "KAGGLE_KEY"),
		GitHub:      cfg.Getenv("GITHUB_TOKEN"),
	}

	cfg.Kaggle = KaggleSettings{
		Username:  cfg.Getenv("KAGGLE_USERNAME"),
		ConfigDir: cfg.Getenv("KAGGLE_CONFIG_DIR"),
	}
	if cfg.Kaggle.ConfigDir == "" {
		cfg.Kaggle.ConfigDir = defaultKaggleConfigDir(root)
	}

	cfg.Endpoints = project.Endpoints
	if v := cfg.Getenv("HF_ENDPOINT"); v != "" {
		cfg.Endpoints.HuggingFace = v
	}
	if v := cfg.Getenv("HF_DATASETS_SERVER"); v != "" {
		cfg.Endpoints.DatasetsServer = v
	}
	if v := cfg.Getenv("KAGGLE_API_ENDPOINT"); v != "" {
		cfg.Endpoints.Kaggle = v
	}
	if v := cfg.Getenv("MEDDATA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// loadEnv reads the environment file and overlays it on the process
// environment. File values win, matching how the tokens were always
// resolved: a project .env beats whatever the shell exported.
func loadEnv(envFile string) (map[string]string, error) {
	env := make(map[string]string)

	fileVals, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		for k, v := range fileVals {
			env[k] = v
		}
	case errors.Is(err, fs.ErrNotExist):
		// No .env file; environment variables only.
	default:
		return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, exists := env[key]; !exists {
			env[key] = value
		}
	}

	return env, nil
}

// loadProjectFile parses meddata.yaml if it exists.
func loadProjectFile(path string) (*ProjectFile, error) {
	project := &ProjectFile{}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return project, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	if err := yaml.Unmarshal(data, project); err != nil {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, err)
	}

	return project, nil
}

// applyProjectDefaults sets default values for any unset project options.
func applyProjectDefaults(p *ProjectFile) {
	if p.DatasetsDir == "" {
		p.DatasetsDir = "_datasets"
	}
	if p.TemplatesDir == "" {
		p.TemplatesDir = "templates"
	}
	if p.DataDir == "" {
		p.DataDir = "_data"
	}
	if p.RawDataDir == "" {
		p.RawDataDir = filepath.Join(p.DataDir, "raw")
	}
	if p.ProcessedDataDir == "" {
		p.ProcessedDataDir = filepath.Join(p.DataDir, "processed")
	}
	if p.DocsDir == "" {
		p.DocsDir = "docs"
	}
	if p.SiteDir == "" {
		p.SiteDir = "dataset"
	}
	if p.ExampleDocsDir == "" {
		p.ExampleDocsDir = "example-docs"
	}
	if p.AssetsDir == "" {
		p.AssetsDir = "assets"
	}
	if p.SampleSize <= 0 {
		p.SampleSize = DefaultSampleSize
	}
	if p.Endpoints.HuggingFace == "" {
		p.Endpoints.HuggingFace = "https://huggingface.co"
	}
	if p.Endpoints.DatasetsServer == "" {
		p.Endpoints.DatasetsServer = "https://datasets-server.huggingface.co"
	}
	if p.Endpoints.Kaggle == "" {
		p.Endpoints.Kaggle = "https://www.kaggle.com"
	}
	if p.LogLevel == "" {
		p.LogLevel = "warn"
	}
	if p.LogFormat == "" {
		p.LogFormat = "text"
	}
}

func resolvePaths(root string, p *ProjectFile) Paths {
	abs := func(rel string) string {
		if filepath.IsAbs(rel) {
			return rel
		}
		return filepath.Join(root, rel)
	}

	return Paths{
		ProjectRoot:      root,
		DatasetsDir:      abs(p.DatasetsDir),
		TemplatesDir:     abs(p.TemplatesDir),
		DataDir:          abs(p.DataDir),
		RawDataDir:       abs(p.RawDataDir),
		ProcessedDataDir: abs(p.ProcessedDataDir),
		DocsDir:          abs(p.DocsDir),
		SiteDir:          abs(p.SiteDir),
		ExampleDocsDir:   abs(p.ExampleDocsDir),
		AssetsDir:        abs(p.AssetsDir),
	}
}

func defaultKaggleConfigDir(root string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(root, ".kaggle")
	}
	return filepath.Join(home, ".kaggle")
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Getenv returns a value from the merged environment.
func (c *Config) Getenv(key string) string {
	return c.env[key]
}

func (c *Config) firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := c.env[k]; v != "" {
			return v
		}
	}
	return ""
}

// TokenFor returns the API token configured for a platform, or "".
func (c *Config) TokenFor(platform string) string {
	switch platform {
	case PlatformHuggingFace:
		return c.Tokens.HuggingFace
	case PlatformKaggle:
		return c.Tokens.Kaggle
	case PlatformGitHub:
		return c.Tokens.GitHub
	}
	return ""
}

// EnsureDirectories creates all project directories that commands write to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DatasetsDir,
		c.Paths.TemplatesDir,
		c.Paths.DataDir,
		c.Paths.RawDataDir,
		c.Paths.ProcessedDataDir,
		c.Paths.DocsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// DatasetConfigPath returns _datasets/<id>.yml.
func (p Paths) DatasetConfigPath(id string) string {
	return filepath.Join(p.DatasetsDir, id+".yml")
}

// RawDir returns the download directory for a dataset and platform.
func (p Paths) RawDir(id, platform string) string {
	return filepath.Join(p.RawDataDir, id, platform)
}

// ProcessedDir returns the processed artifact directory for a dataset.
func (p Paths) ProcessedDir(id string) string {
	return filepath.Join(p.ProcessedDataDir, id)
}

// ParquetPath returns the processed columnar artifact of a dataset.
func (p Paths) ParquetPath(id string) string {
	return filepath.Join(p.ProcessedDir(id), "data.parquet")
}

// DocsOutputDir returns docs/<id>.
func (p Paths) DocsOutputDir(id string) string {
	return filepath.Join(p.DocsDir, id)
}

// SitePageDir returns dataset/<id>.
func (p Paths) SitePageDir(id string) string {
	return filepath.Join(p.SiteDir, id)
}
