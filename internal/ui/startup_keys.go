package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys feeds simulated key presses to m. Each token is literal
// text, <Key> names such as <Down>, <Tab>, <S-Tab>, <CR>, <Esc>, <Space>,
// <BS>, <C-s>, or a mix of both ("new<Down><CR>"). A leading backslash makes
// the whole token literal.
func ApplyStartupKeys(m *Model, keys []string) {
	if len(keys) == 0 || m == nil {
		return
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, `\`) {
			typeText(m, strings.TrimPrefix(token, `\`))
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isKey {
				typeText(m, segment.text)
				continue
			}
			msgs, ok := keyMsgsFromToken(segment.text)
			if !ok {
				typeText(m, segment.text)
				continue
			}
			for _, msg := range msgs {
				m.Update(msg)
			}
		}
	}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

type tokenSegment struct {
	text  string
	isKey bool
}

// parseTokenSegments splits "<Down>abc<CR>" into key and text segments. An
// unterminated "<" is literal text.
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for remaining != "" {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end == -1 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

func keyMsgsFromToken(token string) ([]tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return nil, false
	}
	switch strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")) {
	case "esc", "escape", "c-[":
		return []tea.KeyPressMsg{{Code: tea.KeyEscape}}, true
	case "cr", "enter", "return":
		return []tea.KeyPressMsg{{Code: tea.KeyEnter}}, true
	case "tab":
		return []tea.KeyPressMsg{{Code: tea.KeyTab}}, true
	case "s-tab":
		return []tea.KeyPressMsg{{Code: tea.KeyTab, Mod: tea.ModShift}}, true
	case "space":
		return []tea.KeyPressMsg{{Code: tea.KeySpace, Text: " "}}, true
	case "bs", "backspace":
		return []tea.KeyPressMsg{{Code: tea.KeyBackspace}}, true
	case "up":
		return []tea.KeyPressMsg{{Code: tea.KeyUp}}, true
	case "down":
		return []tea.KeyPressMsg{{Code: tea.KeyDown}}, true
	case "left":
		return []tea.KeyPressMsg{{Code: tea.KeyLeft}}, true
	case "right":
		return []tea.KeyPressMsg{{Code: tea.KeyRight}}, true
	case "home":
		return []tea.KeyPressMsg{{Code: tea.KeyHome}}, true
	case "end":
		return []tea.KeyPressMsg{{Code: tea.KeyEnd}}, true
	case "c-s":
		return []tea.KeyPressMsg{{Code: 's', Mod: tea.ModCtrl}}, true
	case "c-c":
		return []tea.KeyPressMsg{{Code: 'c', Mod: tea.ModCtrl}}, true
	}
	return nil, false
}
