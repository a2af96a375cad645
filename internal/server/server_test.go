package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/flightform/internal/suggest"
	"github.com/oakwood-commons/flightform/pkg/airports"
)

var sample = []airports.Record{
	{Code: "JFK", City: "New York", Name: "John F Kennedy", Country: "US"},
	{Code: "LAX", City: "Los Angeles", Name: "LA Intl", Country: "US"},
	{Code: "LGA", City: "New York", Name: "LaGuardia", State: "NY", Country: "US"},
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestAirportsEndpoint(t *testing.T) {
	h := New(context.Background(), airports.NewStaticDataset(sample)).Routes()
	rec := get(t, h, PathAirports)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got, err := airports.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(sample, got); diff != "" {
		t.Errorf("served records mismatch (-want +got):\n%s", diff)
	}
}

func TestServedDatasetLoadsIntoForm(t *testing.T) {
	srv := httptest.NewServer(New(context.Background(), airports.NewStaticDataset(sample)).Routes())
	defer srv.Close()

	ds := airports.NewDataset()
	require.NoError(t, ds.Load(context.Background(), &airports.HTTPSource{URL: srv.URL + PathAirports}))
	assert.Equal(t, 3, ds.Len())
}

func TestNotReadyReturns503(t *testing.T) {
	h := New(context.Background(), airports.NewDataset()).Routes()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, PathAirports).Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, PathSuggest+"?q=new").Code)

	rec := get(t, h, PathHealth)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["ready"])
}

func TestFailedDatasetIsDegraded(t *testing.T) {
	ds := airports.NewDataset()
	require.Error(t, ds.Load(context.Background(), &airports.BytesSource{Data: []byte("[{")}))
	h := New(context.Background(), ds).Routes()

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, PathAirports).Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(get(t, h, PathHealth).Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Contains(t, body["error"], "airport data")
}

func TestSuggestEndpoint(t *testing.T) {
	h := New(context.Background(), airports.NewStaticDataset(sample)).Routes()

	tests := []struct {
		name   string
		target string
		status int
		codes  []string
	}{
		{"substring", PathSuggest + "?q=new", http.StatusOK, []string{"JFK", "LGA"}},
		{"limit", PathSuggest + "?q=us&limit=1", http.StatusOK, []string{"JFK"}},
		{"empty query", PathSuggest, http.StatusOK, []string{}},
		{"bad limit", PathSuggest + "?q=us&limit=zero", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			require.Equal(t, tt.status, rec.Code)
			if tt.codes == nil {
				return
			}
			var out []struct {
				Code  string `json:"code"`
				Label string `json:"label"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			codes := []string{}
			for _, o := range out {
				codes = append(codes, o.Code)
				assert.NotEmpty(t, o.Label)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestSuggestEndpointCapsLimit(t *testing.T) {
	var many []airports.Record
	for i := 0; i < 8; i++ {
		many = append(many, airports.Record{Code: fmt.Sprintf("S%02d", i), City: "Springfield"})
	}
	h := New(context.Background(), airports.NewStaticDataset(many)).Routes()

	rec := get(t, h, PathSuggest+"?q=spring&limit=20")
	require.Equal(t, http.StatusOK, rec.Code)
	var out []airports.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, suggest.MaxResults)
}

func TestRequestIDHeaderPropagates(t *testing.T) {
	h := New(context.Background(), airports.NewStaticDataset(sample)).Routes()
	req := httptest.NewRequest(http.MethodGet, PathHealth, nil)
	req.Header.Set("X-Request-Id", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(ctx, airports.NewStaticDataset(sample)).ListenAndServe(ctx, "127.0.0.1:0")
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
