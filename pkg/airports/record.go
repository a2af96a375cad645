// Package airports holds the airport dataset consumed by the autocomplete
// widgets: the record type, format decoding, data sources and the
// load-once Dataset shared by every widget on a form.
package airports

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDataLoad marks a failed or malformed dataset load.
var ErrDataLoad = errors.New("airport data load failed")

// Record describes one airport. Records are immutable once loaded.
type Record struct {
	Code    string `json:"code" yaml:"code" toml:"code"`
	City    string `json:"city" yaml:"city" toml:"city"`
	Name    string `json:"name" yaml:"name" toml:"name"`
	State   string `json:"state,omitempty" yaml:"state,omitempty" toml:"state,omitempty"`
	Country string `json:"country,omitempty" yaml:"country,omitempty" toml:"country,omitempty"`
}

// SearchFields returns the populated fields in match order: code, city, name,
// state, country. Empty optional fields are skipped.
func (r Record) SearchFields() []string {
	fields := make([]string, 0, 5)
	for _, f := range []string{r.Code, r.City, r.Name, r.State, r.Country} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Label renders the record the way suggestion rows show it:
// "JFK ~ New York (John F Kennedy), US". The country suffix is omitted when
// unknown.
func (r Record) Label() string {
	var b strings.Builder
	b.WriteString(r.Code)
	b.WriteString(" ~ ")
	b.WriteString(r.City)
	if r.Name != "" {
		fmt.Fprintf(&b, " (%s)", r.Name)
	}
	if r.Country != "" {
		b.WriteString(", ")
		b.WriteString(r.Country)
	}
	return b.String()
}

func validate(records []Record) error {
	for i, r := range records {
		if strings.TrimSpace(r.Code) == "" {
			return fmt.Errorf("record %d: missing code", i)
		}
	}
	return nil
}
