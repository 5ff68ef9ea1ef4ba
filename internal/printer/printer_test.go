package printer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
)

func TestPlainPrinter_Prefixes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf)

	p.Print("hello")
	p.Success("done")
	p.Warning("careful")
	p.Error("boom", errors.New("cause"))
	p.Header("Title")

	out := buf.String()
	for _, want := range []string{
		"[INFO] hello",
		"[SUCCESS] done",
		"[WARNING] careful",
		"[ERROR] boom",
		"  → cause",
		"=== Title ===",
		strings.Repeat("=", HeaderWidth),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlainPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	NewPlain(&buf).Table([]string{"Platform", "File"}, [][]string{
		{"Hugging Face", "README.md"},
		{"Kaggle", "LICENSE"},
	}, "Missing Files")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Missing Files" {
		t.Errorf("title line = %q", lines[0])
	}
	if got, want := lines[1], "Platform     | File     "; got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
	if got, want := lines[3], "Hugging Face | README.md"; got != want {
		t.Errorf("row = %q, want %q", got, want)
	}
	if len(lines) != 5 {
		t.Errorf("got %d lines, want 5", len(lines))
	}
}

func TestPlainPrinter_SmartError(t *testing.T) {
	var buf bytes.Buffer
	err := apperr.New(apperr.DataFileNotFound, "data file not found").
		With("path", "/raw/t1/kaggle/train.csv").
		WithDetails("Available files:", "  - test.csv")

	NewPlain(&buf).SmartError(err)

	out := buf.String()
	for _, want := range []string{
		"[ERROR] File not found",
		"The file /raw/t1/kaggle/train.csv does not exist.",
		"  - test.csv",
		"Possible solutions:",
		"  1. Check if the path is correct",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		title string
	}{
		{"generic", errors.New("plain failure"), "Error occurred"},
		{"network", apperr.New(apperr.NetworkError, "x").With("service", "Kaggle API"), "Network error"},
		{"permission", apperr.New(apperr.PermissionError, "x"), "Permission denied"},
		{"config", apperr.New(apperr.DatasetConfigError, "x"), "Invalid dataset configuration"},
		{"processing", apperr.New(apperr.ProcessingError, "x"), "Error processing dataset"},
		{"dependency", apperr.New(apperr.MissingDependency, "x").With("dependency", "bundle"), "Missing dependency"},
		{"credentials", apperr.New(apperr.MissingCredentials, "x"), "Missing credentials"},
		{"dir", apperr.New(apperr.DatasetDirNotFound, "x"), "Dataset directory not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Diagnose(tt.err)
			if d.Title != tt.title {
				t.Errorf("Title = %q, want %q", d.Title, tt.title)
			}
			if len(d.Remedies) == 0 {
				t.Error("no remedies")
			}
		})
	}
}

func TestDiagnose_RemedyOverride(t *testing.T) {
	err := apperr.New(apperr.NetworkError, "x").WithRemedies("only this")
	d := Diagnose(err)
	if len(d.Remedies) != 1 || d.Remedies[0] != "only this" {
		t.Errorf("Remedies = %v", d.Remedies)
	}
}

func TestRichPrinter_RendersContent(t *testing.T) {
	var buf bytes.Buffer
	p := NewRich(&buf)

	p.DatasetPublished("t1", []Published{{Platform: "huggingface", URL: "https://huggingface.co/datasets/org/t1"}})
	p.Guide("Next Steps", []string{"first", "second"})

	out := buf.String()
	for _, want := range []string{"Dataset t1 published successfully!", "huggingface", "https://huggingface.co/datasets/org/t1", "1. first", "2. second"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNew_SelectsImplementation(t *testing.T) {
	var buf bytes.Buffer
	if _, ok := New(&buf, true).(*RichPrinter); !ok {
		t.Error("New(rich=true) did not return *RichPrinter")
	}
	if _, ok := New(&buf, false).(*PlainPrinter); !ok {
		t.Error("New(rich=false) did not return *PlainPrinter")
	}
}

func TestDiagnose_FileNotFoundWithoutPath(t *testing.T) {
	err := apperr.New(apperr.DataFileNotFound, "2 required file(s) missing for dataset t1").
		With("dir", "/project/dataset/t1").
		WithDetails("README.md", "LICENSE")

	d := Diagnose(err)
	if d.Message != "2 required file(s) missing for dataset t1" {
		t.Errorf("Message = %q", d.Message)
	}
	if strings.Contains(d.Message, "does not exist") {
		t.Errorf("directory reported as missing: %q", d.Message)
	}
}
