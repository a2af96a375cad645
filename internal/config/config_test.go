package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "flightform", cfg.App.Name)
	assert.Equal(t, "round-trip", cfg.Form.TripType)
	assert.Equal(t, 10*time.Second, cfg.Airports.Timeout)
	assert.Equal(t, `form.trip_type != "one-way"`, cfg.Form.ReturnActive)
	assert.Equal(t, "yaml", cfg.UI.Output)
	assert.NotEmpty(t, cfg.UI.Theme.ActiveBG)
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, DefaultYAML())
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
airports:
  source: https://example.com/static/airports.json
form:
  trip_type: one-way
ui:
  theme:
    accent: "#ff8800"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/static/airports.json", cfg.Airports.Source)
	assert.Equal(t, 10*time.Second, cfg.Airports.Timeout, "unset keys keep defaults")
	assert.Equal(t, "one-way", cfg.Form.TripType)
	assert.Equal(t, "#ff8800", cfg.UI.Theme.Accent)
	assert.Equal(t, "246", cfg.UI.Theme.Muted)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "bad.yaml", "form: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "trip.yaml", "form:\n  trip_type: multi-city\n"))
	assert.ErrorContains(t, err, "form.trip_type")

	_, err = Load(writeFile(t, dir, "output.yaml", "ui:\n  output: xml\n"))
	assert.ErrorContains(t, err, "ui.output")
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "explicit.yaml", ResolvePath("explicit.yaml", "flightform"))

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Empty(t, ResolvePath("", "flightform"))

	path := writeFile(t, dir, filepath.Join("flightform", "config.yaml"), "app:\n  name: mine\n")
	assert.Equal(t, path, ResolvePath("", "flightform"))
}
