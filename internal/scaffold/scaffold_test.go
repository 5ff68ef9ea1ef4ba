package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/printer"
)

func newScaffold(t *testing.T) (*Scaffold, *config.Config, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	cfg, err := config.Load(config.LoadOptions{Root: root, EnvFile: filepath.Join(root, "none.env")})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	s := New(cfg, printer.NewPlain(&buf))
	s.Now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	return s, cfg, &buf
}

func TestCreate_WritesLoadableDescriptor(t *testing.T) {
	s, cfg, buf := newScaffold(t)

	res, err := s.Create(Options{ID: "t1", Name: "Name", Description: "Desc"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ds, err := config.LoadDataset(cfg.Paths, "t1")
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	if ds.ID != "t1" || ds.Name != "Name" || ds.Description != "Desc" {
		t.Errorf("descriptor = %+v", ds)
	}
	if ds.ReleaseDate != "2025-03-14" {
		t.Errorf("ReleaseDate = %q", ds.ReleaseDate)
	}
	if ds.Logo.Text != "T" || ds.Status != config.StatusDevelopment {
		t.Errorf("logo text = %q, status = %q", ds.Logo.Text, ds.Status)
	}

	index, _ := os.ReadFile(res.IndexPath)
	for _, want := range []string{"layout: dataset", "dataset_id: t1", "title: Name", "description: Desc", "# Name"} {
		if !strings.Contains(string(index), want) {
			t.Errorf("index.md missing %q:\n%s", want, index)
		}
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.TemplatesDir, TemplateName)); err != nil {
		t.Error("default template not written")
	}
	if !strings.Contains(buf.String(), "meddata process t1") {
		t.Errorf("next steps not printed:\n%s", buf.String())
	}
}

func TestCreate_QuotesValuesThatNeedIt(t *testing.T) {
	s, cfg, _ := newScaffold(t)

	opts := Options{ID: "q1", Name: "yes", Description: "Notes: # of cases\nsecond line"}
	if _, err := s.Create(opts); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ds, err := config.LoadDataset(cfg.Paths, "q1")
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	if ds.Name != opts.Name || ds.Description != opts.Description {
		t.Errorf("round trip = %q / %q", ds.Name, ds.Description)
	}
}

func TestCreate_Rejections(t *testing.T) {
	s, _, _ := newScaffold(t)

	for _, id := range []string{"", "bad id", "under_score", "slash/id"} {
		_, err := s.Create(Options{ID: id, Name: "n", Description: "d"})
		if !apperr.Is(err, apperr.InvalidArgument) {
			t.Errorf("Create(%q) error = %v, want InvalidArgument", id, err)
		}
	}

	if _, err := s.Create(Options{ID: "dup", Name: "n", Description: "d"}); err != nil {
		t.Fatal(err)
	}
	_, err := s.Create(Options{ID: "dup", Name: "n", Description: "d"})
	if !apperr.Is(err, apperr.InvalidArgument) || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("duplicate error = %v", err)
	}
}

func TestCreate_CopiesRequestedDocs(t *testing.T) {
	s, cfg, _ := newScaffold(t)
	hf := filepath.Join(cfg.Paths.ExampleDocsDir, "huggingface")
	os.MkdirAll(hf, 0o755)
	for _, name := range DocFiles {
		os.WriteFile(filepath.Join(hf, name), []byte("About the example dataset\n"), 0o644)
	}

	all := append([]string(nil), DocOrder...)
	res, err := s.Create(Options{ID: "docs1", Name: "n", Description: "d", Docs: all})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(res.Docs) != len(DocOrder) {
		t.Errorf("Docs = %v", res.Docs)
	}

	readme, _ := os.ReadFile(filepath.Join(cfg.Paths.SitePageDir("docs1"), "README.md"))
	if string(readme) != "About the docs1 dataset\n" {
		t.Errorf("README.md = %q", readme)
	}
}

func TestCreate_UsesCustomTemplate(t *testing.T) {
	s, cfg, _ := newScaffold(t)
	os.MkdirAll(cfg.Paths.TemplatesDir, 0o755)
	custom := "id: {{id}}\nname: {{name}}\ndescription: {{description}}\nrelease_date: {{date}}\nstatus: published\n"
	os.WriteFile(filepath.Join(cfg.Paths.TemplatesDir, TemplateName), []byte(custom), 0o644)

	if _, err := s.Create(Options{ID: "c1", Name: "n", Description: "d"}); err != nil {
		t.Fatal(err)
	}

	ds, err := config.LoadDataset(cfg.Paths, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if ds.Status != config.StatusPublished {
		t.Errorf("custom template ignored: status = %q", ds.Status)
	}
}

func TestRenderDescriptor(t *testing.T) {
	got := RenderDescriptor("{{id}}|{{name}}|{{description}}|{{date}}|{{id_initial}}",
		Options{ID: "med-qa", Name: "Med QA", Description: ""}, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	if want := `med-qa|Med QA|""|2024-01-02|M`; got != want {
		t.Errorf("RenderDescriptor() = %q, want %q", got, want)
	}
}
