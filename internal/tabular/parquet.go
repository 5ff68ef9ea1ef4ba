package tabular

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const parquetBatchSize = 256

// listSuffixes are the wrapper segments of LIST-typed columns.
var listSuffixes = []string{".list.element", ".list.item", ".bag.array_element", ".array"}

// =============================================================================
// PARQUET WRITER
// =============================================================================

// WriteParquet writes the table with every column as an optional UTF-8
// string. Columns are written in lexical order.
func WriteParquet(w io.Writer, t *Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("cannot write a table with no columns")
	}

	columns := append([]string(nil), t.Columns...)
	sort.Strings(columns)

	group := make(parquet.Group, len(columns))
	for _, c := range columns {
		group[c] = parquet.Optional(parquet.String())
	}
	schema := parquet.NewSchema("meddata", group)

	pw := parquet.NewWriter(w, schema)
	batch := make([]parquet.Row, 0, parquetBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := pw.WriteRows(batch); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for _, rec := range t.Rows {
		row := make(parquet.Row, len(columns))
		for i, c := range columns {
			if v, ok := rec[c]; ok {
				row[i] = parquet.ByteArrayValue([]byte(v)).Level(0, 1, i)
			} else {
				row[i] = parquet.NullValue().Level(0, 0, i)
			}
		}
		batch = append(batch, row)

		if len(batch) == parquetBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteParquetFile writes to a temporary file next to path and renames it
// into place, so readers never observe a partial file.
func WriteParquetFile(path string, t *Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".data-*.parquet.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if err := WriteParquet(tmp, t); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// =============================================================================
// PARQUET READER
// =============================================================================

// ReadParquetFile loads a Parquet file of any flat schema. Values are
// formatted as strings; repeated columns are rendered as "[a, b]".
func ReadParquetFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}

	names := leafNames(pf.Schema().Columns())
	t := New(uniqueOrdered(names)...)
	t.Source = path

	buf := make([]parquet.Row, parquetBatchSize)
	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				t.Rows = append(t.Rows, recordFromRow(row, names))
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("failed to close row group of %s: %w", path, err)
		}
	}

	return t, nil
}

// CountParquetRows returns the row count recorded in the file footer.
func CountParquetRows(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("invalid parquet file %s: %w", path, err)
	}
	return pf.NumRows(), nil
}

func leafNames(paths [][]string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		name := strings.Join(p, ".")
		for _, suffix := range listSuffixes {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSuffix(name, suffix)
				break
			}
		}
		names[i] = name
	}
	return names
}

func uniqueOrdered(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func recordFromRow(row parquet.Row, names []string) Record {
	values := make(map[int][]string)
	repeated := make(map[int]bool)

	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(names) {
			continue
		}
		if v.RepetitionLevel() > 0 {
			repeated[col] = true
		}
		if v.IsNull() {
			continue
		}
		values[col] = append(values[col], formatValue(v))
	}

	rec := make(Record, len(values))
	for col, vs := range values {
		if len(vs) == 1 && !repeated[col] {
			rec[names[col]] = vs[0]
			continue
		}
		rec[names[col]] = "[" + strings.Join(vs, ", ") + "]"
	}
	return rec
}

func formatValue(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	}
	return fmt.Sprintf("%v", v)
}
