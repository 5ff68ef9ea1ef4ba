package persist

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/tabular"
	"gopkg.in/yaml.v3"
)

func numbered(source string, n int, columns ...string) *tabular.Table {
	t := tabular.New(columns...)
	t.Source = source
	for i := 0; i < n; i++ {
		r := tabular.Record{}
		for _, c := range columns {
			r[c] = fmt.Sprintf("%s-%s-%d", source, c, i)
		}
		t.Append(r)
	}
	return t
}

func TestPersist_WritesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed", "t1")
	a := numbered("kaggle:o/a", 30, "text", "label")
	b := numbered("huggingface:o/b", 20, "text", "lang")

	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s, err := Persist([]*tabular.Table{a, b}, dir, Options{
		DatasetID:  "t1",
		SampleSize: 10,
		RunID:      "run-1",
		Now:        func() time.Time { return fixed },
		Rand:       rand.New(rand.NewPCG(1, 2)),
	})
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	if s.Rows != 50 || s.Columns != 3 {
		t.Errorf("Rows/Columns = %d/%d, want 50/3", s.Rows, s.Columns)
	}
	if s.FileSize <= 0 {
		t.Error("FileSize not recorded")
	}

	got, err := tabular.ReadParquetFile(s.ParquetPath)
	if err != nil {
		t.Fatalf("ReadParquetFile() error = %v", err)
	}
	if got.Len() != 50 {
		t.Errorf("parquet rows = %d, want 50", got.Len())
	}

	sample, err := tabular.ReadCSVFile(s.SamplePath)
	if err != nil {
		t.Fatalf("ReadCSVFile() error = %v", err)
	}
	if sample.Len() != 10 {
		t.Errorf("sample rows = %d, want 10", sample.Len())
	}
	if strings.Join(sample.Columns, ",") != "text,label,lang" {
		t.Errorf("sample columns = %v", sample.Columns)
	}

	xl, err := tabular.ReadXLSXFile(s.XLSXPath)
	if err != nil {
		t.Fatalf("ReadXLSXFile() error = %v", err)
	}
	if xl.Len() != 10 {
		t.Errorf("xlsx rows = %d, want 10", xl.Len())
	}

	data, err := os.ReadFile(s.ManifestPath)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if m.RunID != "run-1" || m.Rows != 50 || m.Sample != 10 || !m.CreatedAt.Equal(fixed) {
		t.Errorf("manifest = %+v", m)
	}
	if len(m.Sources) != 2 || m.Sources[0] != "kaggle:o/a" {
		t.Errorf("manifest sources = %v", m.Sources)
	}
}

func TestPersist_SmallTableIsFullSample(t *testing.T) {
	dir := t.TempDir()
	s, err := Persist([]*tabular.Table{numbered("x", 3, "text")}, dir, Options{DatasetID: "t1"})
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if s.RunID == "" {
		t.Error("RunID not generated")
	}

	sample, _ := tabular.ReadCSVFile(s.SamplePath)
	if sample.Len() != 3 {
		t.Errorf("sample rows = %d, want 3", sample.Len())
	}
}

func TestPersist_WorksheetFailureIsAWarning(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory where the worksheet should go cannot be replaced.
	blocked := filepath.Join(dir, SampleXLSX)
	os.MkdirAll(filepath.Join(blocked, "keep"), 0o755)

	s, err := Persist([]*tabular.Table{numbered("kaggle:o/a", 5, "text")}, dir, Options{DatasetID: "t1"})
	if err != nil {
		t.Fatalf("Persist() error = %v, want success without sample.xlsx", err)
	}
	if s.XLSXPath != "" {
		t.Errorf("XLSXPath = %q, want empty", s.XLSXPath)
	}
	if len(s.Warnings) != 1 || !strings.Contains(s.Warnings[0], SampleXLSX) {
		t.Errorf("Warnings = %v", s.Warnings)
	}
	for _, name := range []string{ParquetFile, SampleCSV, ManifestFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestPersist_NoColumns(t *testing.T) {
	_, err := Persist(nil, t.TempDir(), Options{DatasetID: "t1"})
	if !apperr.Is(err, apperr.ProcessingError) {
		t.Errorf("Persist(nil) error = %v, want ProcessingError", err)
	}
}

func TestPersist_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	parent := t.TempDir()
	if err := os.Chmod(parent, 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(parent, 0o755) })

	_, err := Persist([]*tabular.Table{numbered("x", 2, "text")}, filepath.Join(parent, "out"), Options{})
	if !apperr.Is(err, apperr.PermissionError) {
		t.Errorf("Persist() error = %v, want PermissionError", err)
	}
}

func TestSample_KeepsOrderWithoutRepeats(t *testing.T) {
	tbl := numbered("s", 100, "text")
	got := Sample(tbl, 25, rand.New(rand.NewPCG(7, 7)))

	if got.Len() != 25 {
		t.Fatalf("Len() = %d, want 25", got.Len())
	}

	seen := map[string]bool{}
	last := -1
	for _, r := range got.Rows {
		if seen[r["text"]] {
			t.Fatalf("row %q sampled twice", r["text"])
		}
		seen[r["text"]] = true

		var idx int
		fmt.Sscanf(strings.TrimPrefix(r["text"], "s-text-"), "%d", &idx)
		if idx <= last {
			t.Fatalf("sample out of order: %d after %d", idx, last)
		}
		last = idx
	}
}

func TestSummary_Stats(t *testing.T) {
	s := &Summary{
		Rows:        5,
		Columns:     7,
		ColumnNames: []string{"a", "b", "c", "d", "e", "f", "g"},
		FileSize:    3 * 1024 * 1024 / 2,
		SamplePath:  "/x/sample.csv",
		ParquetPath: "/x/data.parquet",
	}

	stats := s.Stats()
	want := map[string]string{
		"Total rows":   "5",
		"Columns":      "7",
		"File size":    "1.50 MB",
		"Column names": "a, b, c, d, e, ...",
	}
	for _, st := range stats {
		if w, ok := want[st.Label]; ok && st.Value != w {
			t.Errorf("%s = %q, want %q", st.Label, st.Value, w)
		}
	}
	if stats[0].Label != "Total rows" {
		t.Errorf("first stat = %q", stats[0].Label)
	}
}
