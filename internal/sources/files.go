package sources

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/meddata-hub/meddata-cli/internal/apperr"
	"github.com/meddata-hub/meddata-cli/internal/tabular"
)

// maxListedFiles caps the file listing attached to DataFileNotFound.
const maxListedFiles = 10

// supportedExt lists the loadable data file extensions.
var supportedExt = map[string]bool{".csv": true, ".parquet": true}

// LocateDataFile finds name inside dir: first at dir/name, then anywhere
// below dir. When name is empty, the single supported data file in the
// tree is used.
func LocateDataFile(dir, name string) (string, error) {
	fsys := os.DirFS(dir)

	if name == "" {
		return soleDataFile(dir, fsys)
	}

	direct := filepath.Join(dir, name)
	if info, err := os.Stat(direct); err == nil && !info.IsDir() {
		return direct, nil
	}

	matches, err := doublestar.Glob(fsys, "**/"+escapeMeta(filepath.ToSlash(name)), doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", dir, err)
	}
	if len(matches) > 0 {
		sort.Strings(matches)
		return filepath.Join(dir, filepath.FromSlash(matches[0])), nil
	}

	present, err := listFiles(dir, fsys)
	if err != nil {
		return "", err
	}

	return "", apperr.New(apperr.DataFileNotFound, "data file not found: %s", direct).
		With("path", direct).
		WithDetails(availableFiles(present)...)
}

func soleDataFile(dir string, fsys fs.FS) (string, error) {
	present, err := listFiles(dir, fsys)
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, p := range present {
		if supportedExt[strings.ToLower(filepath.Ext(p))] {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}

	return "", apperr.New(apperr.DataFileNotFound,
		"source has no 'file' entry and %d candidate data files were downloaded", len(candidates)).
		With("path", dir).
		WithDetails(availableFiles(present)...)
}

func listFiles(dir string, fsys fs.FS) ([]string, error) {
	all, err := doublestar.Glob(fsys, "**", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(all)

	paths := make([]string, len(all))
	for i, rel := range all {
		paths[i] = filepath.Join(dir, filepath.FromSlash(rel))
	}
	return paths, nil
}

// availableFiles renders at most maxListedFiles paths plus a remainder line.
func availableFiles(paths []string) []string {
	lines := []string{"Available files:"}
	for i, p := range paths {
		if i == maxListedFiles {
			lines = append(lines, fmt.Sprintf("  ... and %d more", len(paths)-maxListedFiles))
			break
		}
		lines = append(lines, "  - "+p)
	}
	if len(paths) == 0 {
		lines = append(lines, "  (none)")
	}
	return lines
}

// escapeMeta escapes glob metacharacters in a literal file name.
func escapeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadDataFile loads a .csv or .parquet file.
func LoadDataFile(path string) (*tabular.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return tabular.ReadCSVFile(path)
	case ".parquet":
		return tabular.ReadParquetFile(path)
	}

	return nil, apperr.New(apperr.UnsupportedFormat, "unsupported file format: %s", path).
		With("path", path)
}
