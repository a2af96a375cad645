package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigYAML []byte

// Accepted values for enumerated settings.
var (
	TripTypes     = []string{"round-trip", "one-way"}
	OutputFormats = []string{"yaml", "json"}
)

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return bytes.Clone(defaultConfigYAML)
}

// Default returns the decoded embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults with the file at path merged on top. Keys absent
// from the file keep their default values. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values and durations.
func (c Config) Validate() error {
	if !slices.Contains(TripTypes, c.Form.TripType) {
		return fmt.Errorf("form.trip_type: %q is not one of %v", c.Form.TripType, TripTypes)
	}
	if !slices.Contains(OutputFormats, c.UI.Output) {
		return fmt.Errorf("ui.output: %q is not one of %v", c.UI.Output, OutputFormats)
	}
	if c.Airports.Timeout < 0 {
		return fmt.Errorf("airports.timeout must not be negative")
	}
	return nil
}

// ResolvePath returns explicit when set, otherwise
// $XDG_CONFIG_HOME/flightform/config.yaml or ~/.config/flightform/config.yaml
// if that file exists, otherwise "".
func ResolvePath(explicit, appName string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, appName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", appName, "config.yaml")
	}
	if candidate == "" {
		return ""
	}
	if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
		return candidate
	}
	return ""
}
