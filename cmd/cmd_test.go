package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
)

func TestWriteEnvTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	written, err := writeEnvTemplate(path, false)
	if err != nil || !written {
		t.Fatalf("first write = %v, %v", written, err)
	}

	info, _ := os.Stat(path)
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	os.WriteFile(path, []byte("HF_TOKEN=keep\n"), 0o644)
	written, err = writeEnvTemplate(path, false)
	if err != nil || written {
		t.Fatalf("second write = %v, %v", written, err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "HF_TOKEN=keep\n" {
		t.Errorf("existing file overwritten: %q", got)
	}

	written, err = writeEnvTemplate(path, true)
	if err != nil || !written {
		t.Fatalf("forced write = %v, %v", written, err)
	}
	got, _ = os.ReadFile(path)
	if !strings.Contains(string(got), "KAGGLE_USERNAME=") {
		t.Errorf("template not written: %q", got)
	}
	info, _ = os.Stat(path)
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("forced mode = %o, want 600", perm)
	}
}

func TestValidateEnvironment(t *testing.T) {
	root := t.TempDir()
	cfg, err := config.Load(config.LoadOptions{Root: root, EnvFile: filepath.Join(root, "none.env")})
	if err != nil {
		t.Fatal(err)
	}

	err = validateEnvironment(cfg.Paths)
	if !apperr.Is(err, apperr.DataFileNotFound) {
		t.Fatalf("validateEnvironment() error = %v, want DataFileNotFound", err)
	}
	e, _ := apperr.As(err)
	if len(e.Details) != 1 || e.Details[0] != cfg.Paths.DatasetsDir {
		t.Errorf("Details = %v", e.Details)
	}

	os.MkdirAll(cfg.Paths.DatasetsDir, 0o755)
	if err := validateEnvironment(cfg.Paths); err != nil {
		t.Errorf("validateEnvironment() error = %v", err)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"init", "process", "publish", "assets", "docs", "doctor", "site", "setup", "manual", "version"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("command %q not registered", name)
		}
		if c.RunE == nil && c.Run == nil {
			t.Errorf("command %q has no run function", name)
		}
	}

	for _, flag := range []string{"license", "changelog", "citation", "ds-card", "contributing", "readme"} {
		if initCmd.Flags().Lookup(flag) == nil {
			t.Errorf("init flag --%s missing", flag)
		}
	}
	for _, flag := range []string{"root", "env-file", "verbose", "plain", "log-format"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestSkipValidation(t *testing.T) {
	for _, name := range []string{"setup", "manual", "version"} {
		if !skipValidation[name] {
			t.Errorf("%s should run outside a project", name)
		}
	}
	if skipValidation["process"] {
		t.Error("process must validate the project layout")
	}
}

func TestPublishArgs_SpaceSeparatedPlatforms(t *testing.T) {
	t.Cleanup(func() {
		publishPlatforms = nil
		publishCmd.Flags().Lookup("platforms").Changed = false
	})

	if err := publishCmd.ParseFlags([]string{"t1", "--platforms", "huggingface", "github"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	args := publishCmd.Flags().Args()
	if err := publishCmd.ValidateArgs(args); err != nil {
		t.Fatalf("ValidateArgs(%v) error = %v", args, err)
	}

	id, platforms, err := publishArgs(args, publishPlatforms, publishCmd.Flags().Changed("platforms"))
	if err != nil {
		t.Fatalf("publishArgs() error = %v", err)
	}
	if id != "t1" || strings.Join(platforms, ",") != "huggingface,github" {
		t.Errorf("publishArgs() = %q, %v", id, platforms)
	}
}

func TestPublishArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		platforms []string
		set       bool
		want      string
		wantErr   bool
	}{
		{"id only", []string{"t1"}, nil, false, "", false},
		{"comma list", []string{"t1"}, []string{"huggingface", "github"}, true, "huggingface,github", false},
		{"trailing names", []string{"t1", "github"}, []string{"huggingface"}, true, "huggingface,github", false},
		{"stray positional", []string{"t1", "extra"}, nil, false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, platforms, err := publishArgs(tt.args, tt.platforms, tt.set)
			if tt.wantErr {
				if !apperr.Is(err, apperr.InvalidArgument) {
					t.Errorf("error = %v, want InvalidArgument", err)
				}
				return
			}
			if err != nil || id != "t1" {
				t.Fatalf("publishArgs() = %q, %v", id, err)
			}
			if got := strings.Join(platforms, ","); got != tt.want {
				t.Errorf("platforms = %q, want %q", got, tt.want)
			}
		})
	}
}
