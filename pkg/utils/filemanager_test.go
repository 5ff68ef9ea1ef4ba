package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"example", "t1"},
		{"An Example of EXAMPLE usage", "An t1 of t1 usage"},
		{"examples", "t1s"},
		{"no token", "no token"},
	}

	for _, tt := range tests {
		if got := ReplaceFold(tt.in, "example", "t1"); got != tt.want {
			t.Errorf("ReplaceFold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := ReplaceFold("example", "example", "$1"); got != "$1" {
		t.Errorf("replacement was expanded: %q", got)
	}
}

func TestCopyTemplate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "README.md")
	os.WriteFile(src, []byte("# Example dataset\nhf.co/example\n"), 0o644)

	dst := filepath.Join(dir, "out", ".kaggle", "README.md")
	if err := CopyTemplate(src, dst, "med-qa"); err != nil {
		t.Fatalf("CopyTemplate() error = %v", err)
	}

	got, _ := os.ReadFile(dst)
	if string(got) != "# med-qa dataset\nhf.co/med-qa\n" {
		t.Errorf("content = %q", got)
	}

	if err := CopyTemplate(filepath.Join(dir, "missing.md"), dst, "x"); err == nil {
		t.Error("CopyTemplate(missing src) error = nil")
	}
}

func TestWriteFileIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", ".env")

	wrote, err := WriteFileIfMissing(path, []byte("first"), 0o600)
	if err != nil || !wrote {
		t.Fatalf("first write = %v, %v", wrote, err)
	}

	wrote, err = WriteFileIfMissing(path, []byte("second"), 0o600)
	if err != nil || wrote {
		t.Fatalf("second write = %v, %v", wrote, err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "first" {
		t.Errorf("content = %q, want first", got)
	}
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	os.WriteFile(path, make([]byte, 1536*1024), 0o644)

	if !FileExists(path) || FileExists(dir) {
		t.Error("FileExists mismatch")
	}
	if !DirExists(dir) || DirExists(path) {
		t.Error("DirExists mismatch")
	}

	size, err := GetFileSize(path)
	if err != nil || FormatSize(size) != "1.50 MB" {
		t.Errorf("FormatSize(%d) = %q, %v", size, FormatSize(size), err)
	}

	dst := filepath.Join(dir, "sub", "copy")
	if err := CopyFile(path, dst); err != nil || !FileExists(dst) {
		t.Errorf("CopyFile() error = %v", err)
	}
}
