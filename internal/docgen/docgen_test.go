package docgen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meddata-hub/meddata-cli/internal/config"
	"github.com/meddata-hub/meddata-cli/internal/printer"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		vars    map[string]string
		want    string
		missing []string
	}{
		{
			name: "both forms",
			tmpl: "# $name (${id})",
			vars: map[string]string{"name": "Med", "id": "t1"},
			want: "# Med (t1)",
		},
		{
			name: "escaped dollar",
			tmpl: "costs $$5 for ${name}s",
			vars: map[string]string{"name": "row"},
			want: "costs $5 for rows",
		},
		{
			name:    "missing kept literal",
			tmpl:    "$name and ${other} and $other",
			vars:    map[string]string{"name": "x"},
			want:    "x and ${other} and $other",
			missing: []string{"other"},
		},
		{
			name: "jinja braces untouched",
			tmpl: "{{ name }} {item['title']}",
			vars: map[string]string{"name": "x"},
			want: "{{ name }} {item['title']}",
		},
		{
			name: "not an identifier",
			tmpl: "$1 and $ alone",
			want: "$1 and $ alone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Render(tt.tmpl, tt.vars)
			if res.Text != tt.want {
				t.Errorf("Text = %q, want %q", res.Text, tt.want)
			}
			if strings.Join(res.Missing, ",") != strings.Join(tt.missing, ",") {
				t.Errorf("Missing = %v, want %v", res.Missing, tt.missing)
			}
			if res.Complete() != (len(tt.missing) == 0) {
				t.Errorf("Complete() = %v", res.Complete())
			}
		})
	}
}

func stat(raw string, isInt bool) config.StatValue {
	return config.StatValue{Raw: raw, IsInt: isInt}
}

func TestSizeCategory(t *testing.T) {
	tests := []struct {
		value config.StatValue
		want  string
	}{
		{stat("50K+", false), "10K<n<100K"},
		{stat("100K+", false), "100K<n<1M"},
		{stat("2 thousand", false), "10K<n<100K"},
		{stat("3M+", false), "1M<n<10M"},
		{stat("1 million", false), "1M<n<10M"},
		{stat("500", true), "n<10K"},
		{stat("5_000_000", true), "1M<n<10M"},
		{stat("50000", true), "10K<n<100K"},
		{stat("250000", true), "100K<n<1M"},
		{stat("50000000", true), "1M<n<10M"},
		{stat("500", false), "unknown"},
		{stat("lots", false), "unknown"},
	}

	for _, tt := range tests {
		if got := SizeCategory(tt.value); got != tt.want {
			t.Errorf("SizeCategory(%q, int=%v) = %q, want %q", tt.value.Raw, tt.value.IsInt, got, tt.want)
		}
	}
}

func TestSizeStat_LastMatchingLabelWins(t *testing.T) {
	stats := []config.Stat{
		{Value: stat("10K+", false), Label: "Articles"},
		{Value: stat("12", true), Label: "Fields"},
		{Value: stat("3M+", false), Label: "entries"},
	}

	v, ok := SizeStat(stats)
	if !ok || v.Raw != "3M+" {
		t.Errorf("SizeStat() = %q, %v; want 3M+", v.Raw, ok)
	}

	if _, ok := SizeStat([]config.Stat{{Value: stat("1", true), Label: "Fields"}}); ok {
		t.Error("SizeStat() matched a non-size label")
	}
}

func testDataset() *config.DatasetConfig {
	return &config.DatasetConfig{
		ID:          "t1",
		Name:        "Med Articles",
		Description: "Articles about medicine",
		ReleaseDate: "2024-03-01",
		Stats:       []config.Stat{{Value: stat("50K+", false), Label: "Items"}},
		Publishing: []config.Publishing{
			{Platform: "huggingface", Repository: "org/t1"},
			{Platform: "github", Repository: "org/t1-repo"},
		},
		Features: []config.Feature{{Icon: "x", Title: "Clean", Description: "Deduplicated"}},
	}
}

func newGenerator(t *testing.T) (*Generator, config.Paths, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	paths := config.Paths{
		ProjectRoot:  root,
		TemplatesDir: filepath.Join(root, "templates"),
		DocsDir:      filepath.Join(root, "docs"),
	}
	var out bytes.Buffer
	g := New(paths, printer.NewPlain(&out))
	g.Now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return g, paths, &out
}

func TestGenerate_WritesArtifacts(t *testing.T) {
	g, paths, _ := newGenerator(t)

	artifacts, err := g.Generate(testDataset())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(artifacts) != 4 {
		t.Fatalf("len(artifacts) = %d, want 4", len(artifacts))
	}

	for _, name := range []string{ReadmeTemplate, CardTemplate, CitationTemplate} {
		if _, err := os.Stat(filepath.Join(paths.TemplatesDir, name)); err != nil {
			t.Errorf("default template %s not written: %v", name, err)
		}
	}

	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(paths.DocsDir, "t1", name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}

	readme := read(ReadmeFile)
	for _, want := range []string{
		"# Med Articles",
		"(https://huggingface.co/datasets/org/t1)",
		"(https://github.com/org/t1-repo)",
		"**Size**: 50K+",
		"**Last Updated**: 2026-10-19",
		"- **Clean**: Deduplicated",
		`load_dataset("org/t1")`,
		`print(f"Title: {item['title']}")`,
	} {
		if !strings.Contains(readme, want) {
			t.Errorf("README missing %q", want)
		}
	}

	card := read(CardFile)
	if !strings.Contains(card, "- 10K<n<100K") || !strings.Contains(card, "Dataset Card for Med Articles") {
		t.Errorf("dataset card not rendered:\n%s", card)
	}

	citation := read(CitationFile)
	for _, want := range []string{`family-names: "Alaamer"`, "date-released: 2024-03-01", "year: 2024"} {
		if !strings.Contains(citation, want) {
			t.Errorf("CITATION.cff missing %q", want)
		}
	}

	if !strings.Contains(read(LicenseFile), "Copyright (c) 2025 MedData Engineering Hub") {
		t.Error("LICENSE text mismatch")
	}

	for _, a := range artifacts {
		if len(a.Missing) != 0 {
			t.Errorf("%s has unresolved placeholders %v", a.Kind, a.Missing)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g1, p1, _ := newGenerator(t)
	g2, p2, _ := newGenerator(t)

	if _, err := g1.Generate(testDataset()); err != nil {
		t.Fatal(err)
	}
	if _, err := g2.Generate(testDataset()); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{ReadmeFile, CardFile, CitationFile, LicenseFile} {
		a, _ := os.ReadFile(filepath.Join(p1.DocsDir, "t1", name))
		b, _ := os.ReadFile(filepath.Join(p2.DocsDir, "t1", name))
		if !bytes.Equal(a, b) {
			t.Errorf("%s differs between runs", name)
		}
	}
}

func TestGenerate_KeepsCustomTemplate(t *testing.T) {
	g, paths, out := newGenerator(t)
	os.MkdirAll(paths.TemplatesDir, 0o755)
	custom := "# ${name}\n${unknown_var}\n"
	os.WriteFile(filepath.Join(paths.TemplatesDir, ReadmeTemplate), []byte(custom), 0o644)

	artifacts, err := g.Generate(testDataset())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(paths.DocsDir, "t1", ReadmeFile))
	if string(data) != "# Med Articles\n${unknown_var}\n" {
		t.Errorf("README = %q", data)
	}
	if strings.Join(artifacts[0].Missing, ",") != "unknown_var" {
		t.Errorf("Missing = %v", artifacts[0].Missing)
	}
	if !strings.Contains(out.String(), "[WARNING] Missing template variable") {
		t.Error("no warning for missing variable")
	}
}

func TestCitationVars_Defaults(t *testing.T) {
	ds := &config.DatasetConfig{
		Name:       "N",
		Publishing: []config.Publishing{{Platform: "github", Repository: "o/r"}},
		Citation:   config.Citation{FamilyNames: "Doe", GivenNames: "Jane"},
	}
	now := time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)

	vars := CitationVars(ds, now)
	want := map[string]string{
		"release_date":       "2027-01-02",
		"release_year":       "2027",
		"repository_url":     "https://github.com/o/r",
		"author_family_name": "Doe",
		"author_given_name":  "Jane",
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("%s = %q, want %q", k, vars[k], v)
		}
	}
}
