// Package config holds the flightform configuration file schema and its
// loading rules: an embedded default document with the user's file merged on
// top.
package config

import "time"

// Config is the merged configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Airports AirportsConfig `yaml:"airports"`
	Form     FormConfig     `yaml:"form"`
	UI       UIConfig       `yaml:"ui"`
}

// AppConfig carries display metadata for the form header.
type AppConfig struct {
	Name string `yaml:"name"`
}

// AirportsConfig locates the airport dataset.
type AirportsConfig struct {
	// Source is a file path, http(s) URL or gs://bucket/object. Empty uses
	// the embedded sample dataset.
	Source  string        `yaml:"source"`
	Timeout time.Duration `yaml:"timeout"`
}

// FormConfig sets initial form state and field rules.
type FormConfig struct {
	TripType     string `yaml:"trip_type"`
	ResultsView  bool   `yaml:"results_view"`
	ReturnActive string `yaml:"return_active"`
}

// UIConfig controls rendering.
type UIConfig struct {
	Output string      `yaml:"output"`
	Theme  ThemeConfig `yaml:"theme"`
}

// ThemeConfig holds ANSI 256 color codes (or #rrggbb) for the form.
type ThemeConfig struct {
	Accent   string `yaml:"accent"`
	Muted    string `yaml:"muted"`
	ActiveFG string `yaml:"active_fg"`
	ActiveBG string `yaml:"active_bg"`
	Error    string `yaml:"error"`
}
