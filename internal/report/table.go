// Package report renders the ledger as aligned terminal tables.
package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorHeader = lipgloss.Color("#fe8019")
	ColorDim    = lipgloss.Color("#928374")
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorRed    = lipgloss.Color("#fb4934")

	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBold   = lipgloss.NewStyle().Bold(true)
)

// Align selects how a column is padded.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// RenderTable renders headers and rows with a separator line. Columns are
// padded to their widest visible cell; align may be shorter than headers,
// missing entries default to left.
func RenderTable(headers []string, rows [][]string, align ...Align) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	const colGap = 2
	alignOf := func(i int) Align {
		if i < len(align) {
			return align[i]
		}
		return AlignLeft
	}

	var b strings.Builder
	writeCell := func(i int, cell, rendered string) {
		pad := max(widths[i]-lipgloss.Width(cell), 0)
		if alignOf(i) == AlignRight {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(rendered)
		} else {
			b.WriteString(rendered)
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}

	for i, h := range headers {
		writeCell(i, h, StyleHeader.Render(h))
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			writeCell(i, cell, cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Header renders a section title with an underline.
func Header(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return StyleHeader.Render(text) + "\n" + StyleDim.Render(line) + "\n"
}
