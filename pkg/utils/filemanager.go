// =============================================================================
// MedData CLI - File Manager Utility
// =============================================================================
//
// This package provides the small file helpers shared by the scaffold,
// doctor, assets and setup commands:
//   - Existence and size checks
//   - Plain file copies
//   - Example-template copies with dataset id substitution
//   - Create-once writes that never clobber user edits
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

// TemplateToken is the word replaced by the dataset id when an example
// document is copied.
const TemplateToken = "example"

// =============================================================================
// FILE INFORMATION
// =============================================================================

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// FormatSize renders a byte count as megabytes with two decimals.
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

// =============================================================================
// COPYING
// =============================================================================

// CopyFile copies src to dst, creating dst's parent directories.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// CopyTemplate copies the example document src to dst, replacing every
// occurrence of TemplateToken, in any letter case, with datasetID.
//
// PARAMETERS:
//   - src: the example document, e.g. example-docs/huggingface/README.md
//   - dst: the destination path; parent directories are created
//   - datasetID: the replacement text
func CopyTemplate(src, dst, datasetID string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	out := ReplaceFold(string(data), TemplateToken, datasetID)
	if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return nil
}

// ReplaceFold replaces every case-insensitive occurrence of old in s.
// The replacement is literal; "$" in repl has no special meaning.
func ReplaceFold(s, old, repl string) string {
	if old == "" {
		return s
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(old))
	return re.ReplaceAllLiteralString(s, repl)
}

// =============================================================================
// CREATE-ONCE WRITES
// =============================================================================

// WriteFileIfMissing writes data to path unless the file already exists.
// It reports whether the file was written.
func WriteFileIfMissing(path string, data []byte, perm fs.FileMode) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return false, err
	}

	return true, nil
}
