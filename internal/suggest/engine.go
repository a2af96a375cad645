// Package suggest computes airport suggestion lists and tracks keyboard
// navigation through them.
package suggest

import (
	"strings"

	"github.com/oakwood-commons/flightform/pkg/airports"
)

// MaxResults caps every suggestion list.
const MaxResults = 5

// Provider supplies the records to search. *airports.Dataset implements it
// and returns nil until loaded, which yields empty lists.
type Provider interface {
	Records() []airports.Record
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func() []airports.Record

// Records calls fn.
func (fn ProviderFunc) Records() []airports.Record { return fn() }

// Engine filters a provider's records for a query.
type Engine struct {
	provider Provider
	limit    int
}

// NewEngine creates an engine returning at most MaxResults matches.
func NewEngine(provider Provider) *Engine {
	return &Engine{provider: provider, limit: MaxResults}
}

// Suggest returns the suggestion list for query.
func (e *Engine) Suggest(query string) []airports.Record {
	if e == nil || e.provider == nil {
		return nil
	}
	return Match(e.provider.Records(), query, e.limit)
}

// Match returns up to limit records whose code, city, name, state or country
// contains query, ignoring case. Source order is kept; there is no ranking.
// limit is capped at MaxResults. An empty query matches nothing.
func Match(records []airports.Record, query string, limit int) []airports.Record {
	if query == "" || limit <= 0 {
		return nil
	}
	limit = min(limit, MaxResults)
	needle := strings.ToUpper(query)
	var out []airports.Record
	for _, r := range records {
		if !Matches(r, needle) {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Matches reports whether any searchable field of r contains the already
// upper-cased needle.
func Matches(r airports.Record, needle string) bool {
	for _, field := range r.SearchFields() {
		if strings.Contains(strings.ToUpper(field), needle) {
			return true
		}
	}
	return false
}
