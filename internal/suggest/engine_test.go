package suggest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/flightform/pkg/airports"
)

func exampleRecords() []airports.Record {
	return []airports.Record{
		{Code: "JFK", City: "New York", Name: "John F Kennedy", Country: "US"},
		{Code: "LAX", City: "Los Angeles", Name: "LA Intl", Country: "US"},
	}
}

func codes(records []airports.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Code)
	}
	return out
}

func TestMatchExamples(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"new", []string{"JFK"}},
		{"NEW", []string{"JFK"}},
		{"us", []string{"JFK", "LAX"}},
		{"lax", []string{"LAX"}},
		{"intl", []string{"LAX"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(Match(exampleRecords(), tt.query, MaxResults)))
		})
	}
}

func TestMatchEmptyQueryAndDataset(t *testing.T) {
	assert.Empty(t, Match(exampleRecords(), "", MaxResults))
	assert.Empty(t, Match(nil, "new", MaxResults))
	assert.Empty(t, Match(exampleRecords(), "new", 0))
}

func TestMatchOptionalFields(t *testing.T) {
	records := []airports.Record{
		{Code: "SFO", City: "San Francisco", Name: "San Francisco International", State: "CA"},
		{Code: "LHR", City: "London", Name: "Heathrow", Country: "GB"},
	}
	assert.Equal(t, []string{"SFO"}, codes(Match(records, "ca", MaxResults)))
	assert.Equal(t, []string{"LHR"}, codes(Match(records, "gb", MaxResults)))
}

func TestMatchTruncatesInSourceOrder(t *testing.T) {
	var records []airports.Record
	for i := 0; i < 12; i++ {
		records = append(records, airports.Record{Code: fmt.Sprintf("A%02d", i), City: "Springfield", Name: "Regional"})
	}
	got := Match(records, "spring", MaxResults)
	require.Len(t, got, MaxResults)
	assert.Equal(t, []string{"A00", "A01", "A02", "A03", "A04"}, codes(got))

	assert.Len(t, Match(records, "spring", 50), MaxResults, "limit never exceeds MaxResults")
	assert.Equal(t, []string{"A00", "A01"}, codes(Match(records, "spring", 2)))
}

func TestMatchPropertyEveryResultContainsQuery(t *testing.T) {
	data, err := airports.EmbeddedSource().Fetch(context.Background())
	require.NoError(t, err)
	records, err := airports.Decode(data)
	require.NoError(t, err)

	queries := []string{"a", "an", "int", "SAN", "o", "us", "tokyo", "x", "e", "new y"}
	for _, q := range queries {
		got := Match(records, q, MaxResults)
		assert.LessOrEqual(t, len(got), MaxResults, q)
		for _, r := range got {
			found := false
			for _, f := range r.SearchFields() {
				if strings.Contains(strings.ToUpper(f), strings.ToUpper(q)) {
					found = true
				}
			}
			assert.True(t, found, "%s does not contain %q", r.Code, q)
		}
	}
}

func TestEngineUsesProvider(t *testing.T) {
	var loaded []airports.Record
	engine := NewEngine(ProviderFunc(func() []airports.Record { return loaded }))
	assert.Empty(t, engine.Suggest("new"))

	loaded = exampleRecords()
	assert.Equal(t, []string{"JFK"}, codes(engine.Suggest("new")))

	engine = NewEngine(airports.NewStaticDataset(exampleRecords()))
	assert.Equal(t, []string{"JFK", "LAX"}, codes(engine.Suggest("us")))

	var nilEngine *Engine
	assert.Nil(t, nilEngine.Suggest("us"))
}
