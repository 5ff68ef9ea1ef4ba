package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Brand colors, matching the site stylesheet.
const (
	colorPrimary   = lipgloss.Color("#6366f1")
	colorSecondary = lipgloss.Color("#14b8a6")
	colorInfo      = lipgloss.Color("6")
	colorWarning   = lipgloss.Color("3")
	colorDanger    = lipgloss.Color("1")
	colorSuccess   = lipgloss.Color("2")
)

// RichPrinter renders panels and tables with lipgloss.
type RichPrinter struct {
	w      io.Writer
	styles map[string]lipgloss.Style
	r      *lipgloss.Renderer
}

// NewRich creates a RichPrinter writing to w. Color support is detected
// from w itself, so a buffer gets uncolored output.
func NewRich(w io.Writer) *RichPrinter {
	r := lipgloss.NewRenderer(w)

	return &RichPrinter{
		w: w,
		r: r,
		styles: map[string]lipgloss.Style{
			"info":    r.NewStyle().Foreground(colorInfo),
			"warning": r.NewStyle().Foreground(colorWarning),
			"danger":  r.NewStyle().Foreground(colorDanger).Bold(true),
			"success": r.NewStyle().Foreground(colorSuccess).Bold(true),
			"primary": r.NewStyle().Foreground(colorPrimary),
			"header":  r.NewStyle().Foreground(colorPrimary).Bold(true),
			"guide":   r.NewStyle().Foreground(colorWarning).Bold(true),
			"path":    r.NewStyle().Foreground(colorSecondary).Italic(true),
			"code":    r.NewStyle().Foreground(lipgloss.Color("4")),
		},
	}
}

func (p *RichPrinter) style(name string) lipgloss.Style {
	return p.styles[name]
}

// panel draws a rounded box with a styled title line.
func (p *RichPrinter) panel(title, body, tone string) {
	color := colorPrimary
	switch tone {
	case "danger":
		color = colorDanger
	case "success":
		color = colorSuccess
	case "guide":
		color = colorWarning
	}

	content := body
	if title != "" {
		content = p.style(tone).Render(title) + "\n\n" + body
	}

	box := p.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	fmt.Fprintln(p.w, box.Render(content))
}

func numbered(steps []string) string {
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}

func (p *RichPrinter) renderTable(columns []string, rows [][]string) string {
	headerStyle := p.r.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	cellStyle := p.r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.r.NewStyle().Foreground(colorPrimary)).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.String()
}

func (p *RichPrinter) Print(message string) {
	fmt.Fprintln(p.w, p.style("info").Render(message))
}

func (p *RichPrinter) Header(message string) {
	box := p.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Width(HeaderWidth-2).
		Padding(0, 1)
	fmt.Fprintln(p.w, box.Render(p.style("header").Render(message)))
}

func (p *RichPrinter) Success(message string) {
	fmt.Fprintln(p.w, p.style("success").Render(message))
}

func (p *RichPrinter) Warning(message string) {
	fmt.Fprintln(p.w, p.style("warning").Render(message))
}

func (p *RichPrinter) Error(message string, err error) {
	body := message
	if err != nil {
		body += "\n\n" + p.r.NewStyle().Italic(true).Render(err.Error())
	}
	p.panel("ERROR", body, "danger")
}

func (p *RichPrinter) Guide(title string, steps []string) {
	p.panel(title, numbered(steps), "guide")
}

func (p *RichPrinter) Table(columns []string, rows [][]string, title string) {
	if title != "" {
		fmt.Fprintln(p.w, p.style("header").Render(title))
	}
	fmt.Fprintln(p.w, p.renderTable(columns, rows))
}

func (p *RichPrinter) FilePath(path string, exists bool) {
	icon := p.style("success").Render("✓")
	if !exists {
		icon = p.style("danger").Render("✗")
	}
	fmt.Fprintf(p.w, "%s %s\n", icon, p.style("path").Render(path))
}

func (p *RichPrinter) Logo() {
	fmt.Fprintln(p.w, p.style("primary").Render(logoArt))
}

func (p *RichPrinter) DatasetCreated(datasetID, configPath string) {
	p.panel("Dataset Created",
		p.style("success").Render(fmt.Sprintf("Dataset %s created successfully!", datasetID))+
			"\n\nConfiguration file: "+p.style("path").Render(configPath),
		"success")
	p.panel("Next Steps", numbered(nextSteps(datasetID, configPath)), "guide")
}

func (p *RichPrinter) DatasetProcessed(datasetID string, stats []Stat) {
	p.panel("Dataset Processed",
		p.style("success").Render(fmt.Sprintf("Dataset %s processed successfully!", datasetID)),
		"success")

	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{s.Label, s.Value}
	}
	p.Table([]string{"Metric", "Value"}, rows, "Dataset Statistics")
}

func (p *RichPrinter) DatasetPublished(datasetID string, targets []Published) {
	p.panel("Dataset Published",
		p.style("success").Render(fmt.Sprintf("Dataset %s published successfully!", datasetID)),
		"success")

	rows := make([][]string, len(targets))
	for i, t := range targets {
		rows[i] = []string{t.Platform, t.URL}
	}
	p.Table([]string{"Platform", "URL"}, rows, "Access URLs")
}

func (p *RichPrinter) SmartError(err error) {
	d := Diagnose(err)

	body := d.Message
	if d.Cause != "" && d.Cause != d.Message {
		body += "\n" + p.r.NewStyle().Italic(true).Render(d.Cause)
	}
	if len(d.Details) > 0 {
		body += "\n\n" + strings.Join(d.Details, "\n")
	}
	body += "\n\n" + p.style("guide").Render("Possible solutions:")
	p.panel(d.Title, body, "danger")

	for i, r := range d.Remedies {
		fmt.Fprintf(p.w, "  %d. %s\n", i+1, r)
	}
}
