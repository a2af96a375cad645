// Package formatter renders command output as YAML, JSON, TOML or a plain
// text table.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
)

// ParseFormat validates s against allowed.
func ParseFormat(s string, allowed ...Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("invalid output format %q (expected %s)", s, strings.Join(names, "|"))
}

// Marshal renders v as JSON, YAML or TOML. TOML needs a table at the top
// level, so callers pass a map or struct for it. The result always ends in
// a newline.
func Marshal(v any, f Format) (string, error) {
	switch f {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case FormatYAML:
		return FormatYAMLString(v, 2)
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("format %q can not be marshaled", f)
	}
}

// FormatYAMLString renders v as YAML with the given indent. Multi-line strings
// are emitted as literal blocks.
func FormatYAMLString(v any, indent int) (string, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return "", err
	}
	applyLiteralStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(&node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func applyLiteralStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}
