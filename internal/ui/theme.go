package ui

import (
	"regexp"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/flightform/internal/config"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Theme holds the styles used to draw the form.
type Theme struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Focused   lipgloss.Style
	Muted     lipgloss.Style
	Row       lipgloss.Style
	ActiveRow lipgloss.Style
	Error     lipgloss.Style
	Border    lipgloss.Style
}

// NewTheme builds styles from the configured colors. With noColor only
// reverse video is kept so the highlighted row stays visible.
func NewTheme(c config.ThemeConfig, noColor bool) Theme {
	th := Theme{
		Title:     lipgloss.NewStyle().Bold(true),
		Label:     lipgloss.NewStyle(),
		Focused:   lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle(),
		Row:       lipgloss.NewStyle().PaddingLeft(1),
		ActiveRow: lipgloss.NewStyle().PaddingLeft(1).Reverse(true),
		Error:     lipgloss.NewStyle(),
		Border:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).PaddingRight(1),
	}
	if noColor {
		return th
	}
	if c.Accent != "" {
		th.Title = th.Title.Foreground(lipgloss.Color(c.Accent))
		th.Focused = th.Focused.Foreground(lipgloss.Color(c.Accent))
		th.Border = th.Border.BorderForeground(lipgloss.Color(c.Accent))
	}
	if c.Muted != "" {
		th.Muted = th.Muted.Foreground(lipgloss.Color(c.Muted))
	}
	if c.ActiveFG != "" || c.ActiveBG != "" {
		th.ActiveRow = lipgloss.NewStyle().PaddingLeft(1)
		if c.ActiveFG != "" {
			th.ActiveRow = th.ActiveRow.Foreground(lipgloss.Color(c.ActiveFG))
		}
		if c.ActiveBG != "" {
			th.ActiveRow = th.ActiveRow.Background(lipgloss.Color(c.ActiveBG))
		}
	}
	if c.Error != "" {
		th.Error = th.Error.Foreground(lipgloss.Color(c.Error)).Bold(true)
	}
	return th
}

func stripANSI(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

// stripANSIExceptInverse removes color sequences but keeps reverse video and
// resets so the highlighted row survives --no-color.
func stripANSIExceptInverse(s string) string {
	return ansiRegexp.ReplaceAllStringFunc(s, func(seq string) string {
		switch seq {
		case "\x1b[7m", "\x1b[27m", "\x1b[0m", "\x1b[m":
			return seq
		default:
			return ""
		}
	})
}
