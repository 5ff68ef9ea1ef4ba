// =============================================================================
// MedData CLI - Printer
// =============================================================================
//
// The printer is the only component that writes user-facing output. It has
// two implementations selected once at startup:
//
//   RichPrinter   - panels, colors and bordered tables (lipgloss)
//   PlainPrinter  - prefixed lines and ASCII tables, for pipes, CI logs and
//                   terminals that asked for no color
//
// Diagnostics for developers go to slog on stderr; see internal/logging.
//
// =============================================================================

package printer

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Printer formats CLI output.
type Printer interface {
	// Print writes an informational line.
	Print(message string)

	Header(message string)
	Success(message string)
	Warning(message string)

	// Error writes an error message with an optional cause.
	Error(message string, err error)

	// Guide writes a titled list of numbered steps.
	Guide(title string, steps []string)

	// Table writes rows under column headers. title may be empty.
	Table(columns []string, rows [][]string, title string)

	// FilePath writes a path with an existence marker.
	FilePath(path string, exists bool)

	Logo()

	DatasetCreated(datasetID, configPath string)
	DatasetProcessed(datasetID string, stats []Stat)
	DatasetPublished(datasetID string, targets []Published)

	// SmartError renders err as a diagnostic with remediation steps.
	SmartError(err error)
}

// Stat is one labelled value in an ordered statistics listing.
type Stat struct {
	Label string
	Value string
}

// Published is a platform the dataset was pushed to.
type Published struct {
	Platform string
	URL      string
}

// HeaderWidth is the width of header rules and panels.
const HeaderWidth = 80

// New returns a RichPrinter when rich is true, else a PlainPrinter.
func New(w io.Writer, rich bool) Printer {
	if rich {
		return NewRich(w)
	}
	return NewPlain(w)
}

// SupportsRich reports whether f is a terminal that accepts colored output.
// NO_COLOR and TERM=dumb both force plain output.
func SupportsRich(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// nextSteps is shared by both printers after a dataset is created.
func nextSteps(datasetID, configPath string) []string {
	return []string{
		"Edit " + configPath + " to customize dataset properties",
		"Run 'meddata assets " + datasetID + "' to generate assets",
		"Review the dataset page: dataset/" + datasetID + "/index.md",
		"Run 'meddata process " + datasetID + "' to process your dataset",
		"Run 'meddata docs " + datasetID + "' to generate documentation",
	}
}
