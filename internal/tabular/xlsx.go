package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSXFile writes the table as a single worksheet. The header row is
// row 1; nulls are left as blank cells.
func WriteXLSXFile(path, sheet string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open worksheet writer: %w", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for r, rec := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for i, c := range t.Columns {
			if v, ok := rec[c]; ok {
				cells[i] = v
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush worksheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// ReadXLSXFile reads the first worksheet, using row 1 as the header.
func ReadXLSXFile(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet %s is empty", sheetName)
	}

	t := New(cleanHeaders(rows[0])...)
	t.Source = path

	for _, row := range rows[1:] {
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}
		rec := make(Record, len(row))
		for i, cell := range row {
			if i >= len(t.Columns) || IsNullCell(cell) {
				continue
			}
			rec[t.Columns[i]] = cell
		}
		t.Rows = append(t.Rows, rec)
	}

	return t, nil
}
