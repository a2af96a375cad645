package airports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var tomlTableHeader = regexp.MustCompile(`^\[\[?[A-Za-z_][A-Za-z0-9_.-]*\]\]?$`)

// document is the wrapped form accepted by every format:
// {"airports": [...]} / airports: [...] / [[airports]].
type document struct {
	Airports []Record `json:"airports" yaml:"airports" toml:"airports"`
}

// Decode parses a dataset, auto-detecting JSON, YAML or TOML. JSON and YAML
// accept either a bare array of records or an object with an "airports" key;
// TOML requires the "airports" key.
func Decode(data []byte) ([]Record, error) {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}
	return DecodeAs(DetectFormat(input), []byte(input))
}

// DetectFormat guesses the encoding of input. TOML table headers are checked
// before JSON since "[[airports]]" also starts with a bracket.
func DetectFormat(input string) Format {
	input = strings.TrimSpace(input)
	if isLikelyTOML(input) {
		return FormatTOML
	}
	if strings.HasPrefix(input, "[") || strings.HasPrefix(input, "{") {
		return FormatJSON
	}
	return FormatYAML
}

// DecodeAs parses data in the given format and validates the records.
func DecodeAs(format Format, data []byte) ([]Record, error) {
	var (
		records []Record
		err     error
	)
	switch format {
	case FormatJSON:
		records, err = decodeJSON(data)
	case FormatYAML:
		records, err = decodeYAML(data)
	case FormatTOML:
		var doc document
		if err = toml.Unmarshal(data, &doc); err == nil {
			records = doc.Airports
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if err := validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeJSON(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		return doc.Airports, nil
	}
	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeYAML(data []byte) ([]Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		var records []Record
		if err := node.Content[0].Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	case yaml.MappingNode:
		var doc document
		if err := node.Content[0].Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Airports, nil
	default:
		return nil, fmt.Errorf("expected a list of airports")
	}
}

func isLikelyTOML(input string) bool {
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if tomlTableHeader.MatchString(line) {
			return true
		}
		// key = value at top level, e.g. "airports = [ ... ]"
		if key, _, ok := strings.Cut(line, "="); ok && !strings.ContainsAny(key, "{}[]\":") {
			return strings.TrimSpace(key) != ""
		}
		return false
	}
	return false
}
