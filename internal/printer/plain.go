package printer

import (
	"fmt"
	"io"
	"strings"
)

// PlainPrinter writes prefixed, uncolored lines.
type PlainPrinter struct {
	w io.Writer
}

// NewPlain creates a PlainPrinter writing to w.
func NewPlain(w io.Writer) *PlainPrinter {
	return &PlainPrinter{w: w}
}

func (p *PlainPrinter) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *PlainPrinter) Print(message string) {
	p.line("[INFO] %s", message)
}

func (p *PlainPrinter) Header(message string) {
	rule := strings.Repeat("=", HeaderWidth)
	p.line("\n%s", rule)
	p.line("=== %s ===", message)
	p.line("%s", rule)
}

func (p *PlainPrinter) Success(message string) {
	p.line("[SUCCESS] %s", message)
}

func (p *PlainPrinter) Warning(message string) {
	p.line("[WARNING] %s", message)
}

func (p *PlainPrinter) Error(message string, err error) {
	p.line("\n[ERROR] %s", message)
	if err != nil {
		p.line("  → %v", err)
	}
}

func (p *PlainPrinter) Guide(title string, steps []string) {
	p.line("\n[GUIDE] %s", title)
	for i, step := range steps {
		p.line("  %d. %s", i+1, step)
	}
}

func (p *PlainPrinter) Table(columns []string, rows [][]string, title string) {
	if title != "" {
		p.line("\n%s", title)
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
		for _, row := range rows {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	pad := func(cells []string) string {
		parts := make([]string, len(columns))
		for i := range columns {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		return strings.Join(parts, " | ")
	}

	header := pad(columns)
	p.line("%s", header)
	p.line("%s", strings.Repeat("-", len(header)))
	for _, row := range rows {
		p.line("%s", pad(row))
	}
}

func (p *PlainPrinter) FilePath(path string, exists bool) {
	marker := "[EXISTS]"
	if !exists {
		marker = "[NOT FOUND]"
	}
	p.line("%s %s", marker, path)
}

func (p *PlainPrinter) Logo() {
	p.line("%s", logoArt)
}

func (p *PlainPrinter) DatasetCreated(datasetID, configPath string) {
	p.line("\n[SUCCESS] Dataset '%s' created successfully!", datasetID)
	p.line("Configuration file: %s", configPath)
	p.line("\nNext steps:")
	for i, step := range nextSteps(datasetID, configPath) {
		p.line("%d. %s", i+1, step)
	}
}

func (p *PlainPrinter) DatasetProcessed(datasetID string, stats []Stat) {
	p.line("\n[SUCCESS] Dataset '%s' processed successfully!", datasetID)
	p.line("\nDataset Statistics:")
	for _, s := range stats {
		p.line("  %s: %s", s.Label, s.Value)
	}
}

func (p *PlainPrinter) DatasetPublished(datasetID string, targets []Published) {
	p.line("\n[SUCCESS] Dataset '%s' published successfully!", datasetID)
	p.line("\nAccess URLs:")
	for _, t := range targets {
		p.line("  %s: %s", t.Platform, t.URL)
	}
}

func (p *PlainPrinter) SmartError(err error) {
	d := Diagnose(err)

	p.line("\n[ERROR] %s", d.Title)
	p.line("  %s", d.Message)
	if d.Cause != "" && d.Cause != d.Message {
		p.line("  → %s", d.Cause)
	}
	for _, detail := range d.Details {
		p.line("    %s", detail)
	}
	p.line("\nPossible solutions:")
	for i, r := range d.Remedies {
		p.line("  %d. %s", i+1, r)
	}
}
