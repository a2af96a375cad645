package ui

import (
	"context"
	"strings"
)

// SnapshotConfig configures RenderSnapshot.
type SnapshotConfig struct {
	Width     int
	Height    int
	StartKeys []string
}

// RenderSnapshot renders one frame of the form without a terminal. The
// dataset source, if any, is loaded synchronously first so suggestions for
// the start keys are deterministic.
func RenderSnapshot(ctx context.Context, opts Options, cfg SnapshotConfig) (string, *Model, error) {
	m, err := New(ctx, opts)
	if err != nil {
		return "", nil, err
	}
	if m.source != nil {
		m.datasetReady(loadWithTimeout(m.ctx, m.dataset, m.source, m.timeout))
	}
	if cfg.Width > 0 {
		m.resize(cfg.Width)
	}
	m.height = cfg.Height
	ApplyStartupKeys(m, cfg.StartKeys)
	view := m.Render()
	if cfg.Height > 0 {
		view = padSnapshotHeight(view, cfg.Height, cfg.Width)
	}
	return view, m, nil
}

func padSnapshotHeight(view string, height, width int) string {
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines, "\n")
	}
	padLine := " "
	if width > 1 {
		padLine = strings.Repeat(" ", width)
	}
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}
