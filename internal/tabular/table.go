// =============================================================================
// MedData CLI - Tabular Data
// =============================================================================
//
// This package holds the in-memory table passed between the source
// processors, the normalizer and the persister, plus the file codecs that
// produce and consume it:
//
//   csv.go      - CSV reader (bad lines skipped) and writer
//   parquet.go  - Parquet reader (any flat schema) and writer (all strings)
//   xlsx.go     - XLSX worksheet reader and writer
//
// NULL HANDLING:
//   A Record is a map from column name to value. A missing key is a null;
//   an empty string is a present, empty value. CSV and XLSX cells that are
//   empty or hold a null marker (NA, N/A, NULL, NaN, None, ...) load as
//   nulls.
//
// =============================================================================

package tabular

import (
	"fmt"
	"sort"
)

// nullMarkers are the cell texts read as null, matching the default NA
// values of pandas.read_csv. Matching is exact and case-sensitive.
var nullMarkers = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsNullCell reports whether a text cell reads as null.
func IsNullCell(cell string) bool {
	return nullMarkers[cell]
}

// Record is a single row keyed by column name. Absent keys are nulls.
type Record map[string]string

// Get returns the value for column and whether it is non-null.
func (r Record) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Table is an ordered set of columns and the rows that fill them.
type Table struct {
	// Columns lists column names in first-seen order.
	Columns []string

	// Rows holds the data rows.
	Rows []Record

	// Source describes where the table came from, e.g. "kaggle:owner/slug".
	Source string
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether column is part of the table.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Append adds a row. Keys not yet in Columns are added in sorted order so
// the column list stays deterministic.
func (t *Table) Append(r Record) {
	if len(r) > 0 {
		known := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			known[c] = true
		}
		var extra []string
		for k := range r {
			if !known[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		t.Columns = append(t.Columns, extra...)
	}
	t.Rows = append(t.Rows, r)
}

// Shape returns "(rows, columns)".
func (t *Table) Shape() string {
	return fmt.Sprintf("(%d, %d)", len(t.Rows), len(t.Columns))
}

// Concat unions tables row-wise in argument order. Columns are ordered by
// first appearance; rows lacking a column hold a null there. Row records
// are shared with the inputs, not copied.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	seen := make(map[string]bool)

	total := 0
	for _, t := range tables {
		if t == nil {
			continue
		}
		total += len(t.Rows)
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}
	}

	out.Rows = make([]Record, 0, total)
	for _, t := range tables {
		if t == nil {
			continue
		}
		out.Rows = append(out.Rows, t.Rows...)
	}

	return out
}

// Column returns all values of a column; nulls are reported in the mask.
func (t *Table) Column(name string) (values []string, present []bool) {
	values = make([]string, len(t.Rows))
	present = make([]bool, len(t.Rows))
	for i, r := range t.Rows {
		values[i], present[i] = r[name]
	}
	return values, present
}
