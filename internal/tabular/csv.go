package tabular

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// =============================================================================
// CSV READER
// =============================================================================

// ReadCSVFile reads a CSV file with a header row.
//
// PARAMETERS:
//   - path: The path to the CSV file.
//
// RETURNS:
//   - The parsed table. Empty cells and null markers are nulls.
//   - An error if the file cannot be opened or has no header.
//
// BAD LINES:
//
//	Rows with more fields than the header, or rows the CSV reader cannot
//	parse, are skipped and counted in the log. Short rows are kept and
//	their missing cells are nulls.
func ReadCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	t, skipped, err := ReadCSV(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV %s: %w", path, err)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed CSV lines", "path", path, "count", skipped)
	}

	t.Source = path
	return t, nil
}

// ReadCSV parses CSV from r and returns the table and number of skipped lines.
func ReadCSV(r io.Reader) (*Table, int, error) {
	reader := csv.NewReader(r)
	configureReader(reader)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	t := New(cleanHeaders(header)...)
	skipped := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("failed to read CSV: %w", err)
		}

		if isRowEmpty(row) {
			continue
		}
		if len(row) > len(t.Columns) {
			skipped++
			continue
		}

		rec := make(Record, len(row))
		for i, cell := range row {
			if IsNullCell(cell) {
				continue
			}
			rec[t.Columns[i]] = cell
		}
		t.Rows = append(t.Rows, rec)
	}

	return t, skipped, nil
}

// configureReader relaxes the CSV reader for real-world exports.
func configureReader(reader *csv.Reader) {
	// Allow variable number of fields per row; width is checked per row.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true
}

// cleanHeaders trims header names, names empty headers after their
// position, and suffixes duplicates with ".1", ".2", ...
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]int, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))

		if header == "" {
			header = fmt.Sprintf("Unnamed: %d", i)
		}

		if n, dup := seen[header]; dup {
			seen[header] = n + 1
			header = fmt.Sprintf("%s.%d", header, n+1)
		} else {
			seen[header] = 0
		}

		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// CSV WRITER
// =============================================================================

// WriteCSV writes the table with a header row. Nulls become empty cells.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	cells := make([]string, len(t.Columns))
	for _, rec := range t.Rows {
		for i, c := range t.Columns {
			cells[i] = rec[c]
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to path.
func WriteCSVFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, t); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return f.Close()
}
