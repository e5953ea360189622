package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LipGloss signature purple/pink palette
var (
	headerColor  = lipgloss.Color("#F780FF") // Bright pink/magenta
	idColor      = lipgloss.Color("#BD93F9") // Purple
	numberColor  = lipgloss.Color("#FF79C6") // Pink
	textColor    = lipgloss.Color("#E9E9F4") // Light purple/white
	borderColor  = lipgloss.Color("#6272A4") // Muted purple
	summaryColor = lipgloss.Color("#8BE9FD") // Cyan accent
)

type column struct {
	title   string
	width   int
	color   lipgloss.Color
	numeric bool
}

// table renders fixed-width rows separated by box-drawing borders
type table struct {
	columns []column
	rows    [][]string
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	headers := make([]string, len(t.columns))
	separator := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = headerStyle.Width(col.width).Render(col.title)
		separator[i] = strings.Repeat("─", col.width)
	}
	fmt.Fprintln(w, strings.Join(headers, borderStyle.Render("│")))
	fmt.Fprintln(w, borderStyle.Render(strings.Join(separator, "┼")))

	for _, row := range t.rows {
		cells := make([]string, len(t.columns))
		for i, col := range t.columns {
			style := lipgloss.NewStyle().
				Foreground(col.color).
				Padding(0, 1).
				Width(col.width).
				MaxHeight(1)
			if col.numeric {
				style = style.Align(lipgloss.Right)
			}
			cell := ""
			if i < len(row) {
				cell = truncate(row[i], col.width-2)
			}
			cells[i] = style.Render(cell)
		}
		fmt.Fprintln(w, strings.Join(cells, borderStyle.Render("│")))
	}
}

func renderSummary(w io.Writer, summary string) {
	summaryStyle := lipgloss.NewStyle().
		Foreground(summaryColor).
		Italic(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryStyle.Render(summary))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
