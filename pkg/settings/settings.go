// Package settings provides build metadata, per-run configuration and the
// context helpers shared by the flightform CLI and its packages.
package settings

import "time"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "flightform"

// DateLayout is the calendar-date format used by every date field.
const DateLayout = "2006-01-02"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the settings for a single execution of the application.
type Run struct {
	MinLogLevel    int8
	NoColor        bool
	ExitOnError    bool
	AirportsSource string
	ResultsView    bool
	// Today overrides the wall clock for date rules; zero means time.Now.
	Today time.Time
}

// NewCliParams returns the defaults used when running from the command line.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		NoColor:     false,
		ExitOnError: true,
	}
}

// Now returns Today when set, otherwise the current local time.
func (r *Run) Now() time.Time {
	if r == nil || r.Today.IsZero() {
		return time.Now()
	}
	return r.Today
}
