package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Code string `json:"code" yaml:"code" toml:"code"`
	Note string `json:"note" yaml:"note" toml:"note"`
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ", FormatYAML, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("toml", FormatYAML, FormatJSON)
	assert.ErrorContains(t, err, "yaml|json")
}

func TestMarshal(t *testing.T) {
	v := map[string][]sample{"airports": {{Code: "JFK", Note: "a"}}}

	out, err := Marshal(v, FormatJSON)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "}\n"))
	var fromJSON map[string][]sample
	require.NoError(t, json.Unmarshal([]byte(out), &fromJSON))
	assert.Equal(t, v, fromJSON)

	out, err = Marshal(v, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, out, "airports:\n  - code: JFK\n")

	out, err = Marshal(v, FormatTOML)
	require.NoError(t, err)
	var fromTOML map[string][]sample
	require.NoError(t, toml.Unmarshal([]byte(out), &fromTOML))
	assert.Equal(t, v, fromTOML)

	_, err = Marshal(v, FormatTable)
	assert.Error(t, err)
}

func TestFormatYAMLStringLiteralBlocks(t *testing.T) {
	out, err := FormatYAMLString(map[string]string{"note": "line one\nline two"}, 0)
	require.NoError(t, err)
	assert.Contains(t, out, "note: |-\n")

	var back map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &back))
	assert.Equal(t, "line one\nline two", back["note"])
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"code", "label"},
		[][]string{{"JFK", "New York"}, {"LAX", "Los Angeles"}},
		TableOptions{NoColor: true},
	)
	assert.Equal(t, "CODE  LABEL\nJFK   New York\nLAX   Los Angeles\n", out)
}

func TestRenderTableTruncatesLastColumn(t *testing.T) {
	out := RenderTable(
		[]string{"code", "label"},
		[][]string{{"JFK", "New York (John F Kennedy)"}},
		TableOptions{NoColor: true, Width: 15},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "JFK   New York…", lines[1])
	assert.Equal(t, "CODE  LABEL", lines[0])
}

func TestRenderTableHeaderColor(t *testing.T) {
	cols := []string{"code"}
	rows := [][]string{{"JFK"}}
	plain := RenderTable(cols, rows, TableOptions{NoColor: true, HeaderColor: "81"})
	assert.Equal(t, "CODE\nJFK\n", plain, "no-color ignores the header color")

	bold := RenderTable(cols, rows, TableOptions{})
	colored := RenderTable(cols, rows, TableOptions{HeaderColor: "81"})
	assert.NotEqual(t, bold, colored)
	assert.True(t, strings.HasSuffix(colored, "\nJFK\n"), "rows are never styled")
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil, TableOptions{}))
	assert.Equal(t, "CODE\n", RenderTable([]string{"code"}, nil, TableOptions{NoColor: true}))
}
