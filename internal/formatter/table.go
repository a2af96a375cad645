package formatter

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

const columnGap = 2

// TableOptions configures RenderTable.
type TableOptions struct {
	NoColor bool
	// Width caps the line width; the last column is truncated to fit. Zero
	// means unlimited.
	Width       int
	HeaderColor string
}

// RenderTable lays out rows under upper-cased column headers, padding by
// display width so wide runes stay aligned.
func RenderTable(columns []string, rows [][]string, opts TableOptions) string {
	if len(columns) == 0 {
		return ""
	}
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range rows {
		for i := range columns {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}
	if opts.Width > 0 {
		used := 0
		for _, w := range widths[:len(widths)-1] {
			used += w + columnGap
		}
		last := len(widths) - 1
		widths[last] = max(min(widths[last], opts.Width-used), 1)
	}

	header := lipgloss.NewStyle().Bold(true)
	if !opts.NoColor && opts.HeaderColor != "" {
		header = header.Foreground(lipgloss.Color(opts.HeaderColor))
	}

	var b strings.Builder
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(c)
	}
	line := formatRow(headers, widths)
	if opts.NoColor {
		b.WriteString(line)
	} else {
		b.WriteString(header.Render(line))
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(formatRow(row, widths))
		b.WriteString("\n")
	}
	return b.String()
}

func formatRow(values []string, widths []int) string {
	cells := make([]string, len(widths))
	for i, w := range widths {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		v = runewidth.Truncate(v, w, "…")
		if i < len(widths)-1 {
			v = runewidth.FillRight(v, w)
		}
		cells[i] = v
	}
	return strings.TrimRight(strings.Join(cells, strings.Repeat(" ", columnGap)), " ")
}
