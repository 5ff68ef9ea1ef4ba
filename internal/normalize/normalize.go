// Package normalize cleans a table on its text column: rows with a null
// text are dropped, then duplicates by text keep their first occurrence.
package normalize

import (
	"fmt"

	"github.com/meddata-hub/meddata-cli/internal/printer"
	"github.com/meddata-hub/meddata-cli/internal/tabular"
)

// TextColumnCandidates are tried in order; the first present column wins.
var TextColumnCandidates = []string{"text", "Text", "content", "Content", "body", "Body"}

// Report describes what Normalize removed.
type Report struct {
	// TextColumn is empty when no candidate column was found.
	TextColumn string

	Before            int
	After             int
	NullsDropped      int
	DuplicatesDropped int
}

// Removed returns the number of rows dropped.
func (r Report) Removed() int {
	return r.Before - r.After
}

// PercentRemoved returns the dropped share of the input in percent.
func (r Report) PercentRemoved() float64 {
	if r.Before == 0 {
		return 0
	}
	return float64(r.Removed()) / float64(r.Before) * 100
}

// DetectTextColumn returns the first candidate column present in t.
func DetectTextColumn(t *tabular.Table) (string, bool) {
	for _, c := range TextColumnCandidates {
		if t.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// Normalize returns a cleaned copy of t. When no text column exists the
// input is returned unchanged.
func Normalize(t *tabular.Table) (*tabular.Table, Report) {
	report := Report{Before: t.Len(), After: t.Len()}

	column, ok := DetectTextColumn(t)
	if !ok {
		return t, report
	}
	report.TextColumn = column

	out := &tabular.Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]tabular.Record, 0, t.Len()),
		Source:  t.Source,
	}

	seen := make(map[string]struct{}, t.Len())
	for _, r := range t.Rows {
		v, ok := r.Get(column)
		if !ok {
			report.NullsDropped++
			continue
		}
		if _, dup := seen[v]; dup {
			report.DuplicatesDropped++
			continue
		}
		seen[v] = struct{}{}
		out.Rows = append(out.Rows, r)
	}

	report.After = out.Len()
	return out, report
}

// Print writes the report the way `process` shows it. columns is the
// column count of the table, which normalization never changes.
func (r Report) Print(out printer.Printer, columns int) {
	out.Print(fmt.Sprintf("Shape before: (%d, %d)", r.Before, columns))

	if r.TextColumn == "" {
		out.Warning("No text column found for normalization")
	}
	if r.NullsDropped > 0 {
		out.Print(fmt.Sprintf("Dropping %d rows with null %s", r.NullsDropped, r.TextColumn))
	}
	if r.DuplicatesDropped > 0 {
		out.Print(fmt.Sprintf("Dropping %d duplicate rows based on %s", r.DuplicatesDropped, r.TextColumn))
	}

	out.Print(fmt.Sprintf("Shape after: (%d, %d)", r.After, columns))
	if r.Removed() > 0 {
		out.Print(fmt.Sprintf("Removed %d rows (%.2f%%)", r.Removed(), r.PercentRemoved()))
	}
}
