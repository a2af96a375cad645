package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// RunModel runs the form interactively and returns the final model so the
// caller can print the submission. Width/height of 0 auto-detect the
// terminal size. Extra ProgramOptions (custom IO, for example) are passed to
// tea.NewProgram.
func RunModel(m *Model, width, height int, startKeys []string, opts ...tea.ProgramOption) (*Model, error) {
	if width > 0 || height > 0 {
		runW, runH := width, height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = defaultWidth
		}
		if runH <= 0 {
			runH = 24
		}
		m.height = runH
		m.resize(runW)
		opts = append(opts, tea.WithWindowSize(runW, runH))
	}

	ApplyStartupKeys(m, startKeys)
	if m.submitted || m.quitting {
		return m, nil
	}

	prog := tea.NewProgram(m, opts...)
	final, err := prog.Run()
	if fm, ok := final.(*Model); ok && fm != nil {
		return fm, err
	}
	return m, err
}
