package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/flightform/internal/widget"
	"github.com/oakwood-commons/flightform/pkg/airports"
)

var fixedToday = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.Local)

func testDataset() *airports.Dataset {
	return airports.NewStaticDataset([]airports.Record{
		{Code: "JFK", City: "New York", Name: "John F Kennedy", Country: "US"},
		{Code: "LAX", City: "Los Angeles", Name: "LA Intl", Country: "US"},
		{Code: "LGA", City: "New York", Name: "LaGuardia", State: "NY", Country: "US"},
	})
}

func newTestModel(t *testing.T, mutate ...func(*Options)) *Model {
	t.Helper()
	opts := Options{
		Dataset: testDataset(),
		Now:     func() time.Time { return fixedToday },
		NoColor: true,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	m, err := New(context.Background(), opts)
	require.NoError(t, err)
	return m
}

func press(m *Model, keys ...string) {
	ApplyStartupKeys(m, keys)
}

func TestNewModelFocusesOrigin(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, widget.IDOrigin, m.Focused())
	assert.Equal(t, widget.TripRoundTrip, m.Value(widget.IDTripType))

	dep, _ := m.Page().Element(widget.IDDepartureDate)
	assert.Equal(t, "2026-10-19", dep.Min)
}

func TestTypingOpensSuggestions(t *testing.T) {
	m := newTestModel(t)
	press(m, "new")

	assert.Equal(t, "new", m.Value(widget.IDOrigin))
	w, ok := m.Widget(widget.IDOrigin)
	require.True(t, ok)
	require.NotNil(t, w.Dropdown())
	assert.Equal(t, 2, w.Dropdown().Len())

	view := m.Render()
	assert.Contains(t, view, "JFK ~ New York (John F Kennedy), US")
	assert.Contains(t, view, "LGA ~ New York (LaGuardia), US")
}

func TestArrowAndEnterPickSuggestion(t *testing.T) {
	m := newTestModel(t)
	press(m, "new<Down><Down><CR>")

	assert.Equal(t, "LGA", m.Value(widget.IDOrigin))
	assert.Empty(t, m.Page().Dropdowns())
	assert.False(t, m.Submitted(), "enter on a dropdown never submits")
	assert.Equal(t, widget.IDOrigin, m.Focused())

	// the text input shows the chosen code and further typing appends to it
	press(m, "X")
	assert.Equal(t, "LGAX", m.Value(widget.IDOrigin))
}

func TestEnterWithoutHighlightDoesNotSubmit(t *testing.T) {
	m := newTestModel(t)
	press(m, "new<CR>")
	assert.Equal(t, "new", m.Value(widget.IDOrigin))
	assert.Len(t, m.Page().Dropdowns(), 1)
	assert.False(t, m.Submitted())
	assert.Empty(t, m.Violations())
}

func TestEscClosesDropdown(t *testing.T) {
	m := newTestModel(t)
	press(m, "new<Esc>")
	assert.Empty(t, m.Page().Dropdowns())
	assert.Equal(t, "new", m.Value(widget.IDOrigin))
}

func TestTabMovesFocusAndClosesDropdown(t *testing.T) {
	m := newTestModel(t)
	press(m, "new<Tab>")
	assert.Equal(t, widget.IDDestination, m.Focused())
	assert.Empty(t, m.Page().Dropdowns())

	press(m, "<S-Tab>")
	assert.Equal(t, widget.IDOrigin, m.Focused())
}

func TestArrowsMoveFocusWithoutDropdown(t *testing.T) {
	m := newTestModel(t)
	press(m, "<Down>")
	assert.Equal(t, widget.IDDestination, m.Focused())
	press(m, "<Up>")
	assert.Equal(t, widget.IDOrigin, m.Focused())
}

func TestTripTypeToggleSkipsReturnDate(t *testing.T) {
	m := newTestModel(t)
	press(m, "<Tab><Tab><Tab>")
	require.Equal(t, widget.IDTripType, m.Focused())

	press(m, "<Space>")
	assert.Equal(t, widget.TripOneWay, m.Value(widget.IDTripType))
	ret, _ := m.Page().Element(widget.IDReturnDate)
	assert.True(t, ret.Disabled)
	assert.True(t, ret.Hidden)
	assert.NotContains(t, m.Render(), "Return")

	press(m, "<Tab>")
	assert.Equal(t, widget.IDOrigin, m.Focused(), "disabled return date is skipped")

	press(m, "<S-Tab><Right>")
	assert.Equal(t, widget.TripRoundTrip, m.Value(widget.IDTripType))
	assert.False(t, ret.Disabled)
	assert.True(t, ret.Required)
}

func TestDepartureSetsReturnMinimum(t *testing.T) {
	m := newTestModel(t)
	press(m, "<Tab><Tab>2026-11-02<Tab>")

	assert.Equal(t, "2026-11-02", m.Value(widget.IDDepartureDate))
	ret, _ := m.Page().Element(widget.IDReturnDate)
	assert.Equal(t, "2026-11-02", ret.Min)
	assert.Contains(t, m.Render(), "earliest 2026-11-02")
}

func TestSubmitReportsViolations(t *testing.T) {
	m := newTestModel(t)
	press(m, "<C-s>")
	assert.False(t, m.Submitted())

	var fields []string
	for _, v := range m.Violations() {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{
		widget.IDOrigin, widget.IDDestination, widget.IDDepartureDate, widget.IDReturnDate,
	}, fields)
	assert.Contains(t, m.Render(), "! origin: required")
}

func TestSubmitOneWay(t *testing.T) {
	m := newTestModel(t)
	press(m,
		"jfk<Down><CR><Tab>",
		"angeles<Down><CR><Tab>",
		"2026-12-01<Tab>",
		"<Space>",
		"<C-s>",
	)

	require.Empty(t, m.Violations())
	assert.True(t, m.Submitted())
	assert.Equal(t, map[string]string{
		widget.IDOrigin:        "JFK",
		widget.IDDestination:   "LAX",
		widget.IDDepartureDate: "2026-12-01",
		widget.IDTripType:      widget.TripOneWay,
	}, m.Submission())
}

func TestSubmitRejectsReturnBeforeDeparture(t *testing.T) {
	m := newTestModel(t)
	press(m,
		"JFK<Tab>LAX<Tab>",
		"2026-12-01<Tab><Tab>",
		"2026-11-20<C-s>",
	)
	assert.False(t, m.Submitted())
	require.Len(t, m.Violations(), 1)
	assert.Equal(t, widget.IDReturnDate, m.Violations()[0].Field)
}

func TestEnterOnLastFieldSubmits(t *testing.T) {
	m := newTestModel(t)
	press(m, "JFK<Tab>LAX<Tab>2026-12-01<Tab><Tab>2026-12-08<CR>")
	assert.True(t, m.Submitted())
	assert.Equal(t, "2026-12-08", m.Submission()[widget.IDReturnDate])
}

func TestDatasetReadyRefreshesOpenDropdown(t *testing.T) {
	ds := airports.NewDataset()
	src := &airports.BytesSource{Name: "inline", Data: []byte(`[{"code":"JFK","city":"New York","name":"John F Kennedy","country":"US"}]`)}
	m := newTestModel(t, func(o *Options) {
		o.Dataset = ds
		o.Source = src
	})

	press(m, "new")
	w, _ := m.Widget(widget.IDOrigin)
	require.NotNil(t, w.Dropdown())
	assert.Zero(t, w.Dropdown().Len())
	assert.Contains(t, m.Render(), "loading airports...")

	cmd := m.loadDataset()
	require.NotNil(t, cmd)
	m.Update(cmd())

	require.NotNil(t, w.Dropdown())
	assert.Equal(t, 1, w.Dropdown().Len())
	assert.Contains(t, m.Render(), "1 airports from inline")
}

func TestDatasetFailureKeepsFormUsable(t *testing.T) {
	ds := airports.NewDataset()
	src := &airports.BytesSource{Name: "broken", Data: []byte(`not json`)}
	m := newTestModel(t, func(o *Options) {
		o.Dataset = ds
		o.Source = src
	})
	m.Update(m.loadDataset()())

	press(m, "new")
	assert.Equal(t, "new", m.Value(widget.IDOrigin))
	view := m.Render()
	assert.Contains(t, view, "airport suggestions unavailable")
	assert.Contains(t, view, "no matching airports")
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Submitted())
}

func TestWindowSizeTruncatesRows(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	press(m, "new")
	for _, line := range strings.Split(m.Render(), "\n") {
		if strings.Contains(line, "JFK ~") {
			assert.Contains(t, line, "…")
		}
	}
}

func TestResultsViewInputs(t *testing.T) {
	m := newTestModel(t, func(o *Options) { o.ResultsView = true })
	_, ok := m.Widget(widget.IDResultsOrigin)
	assert.True(t, ok)
	assert.Contains(t, m.Render(), "Results from")

	plain := newTestModel(t)
	_, ok = plain.Widget(widget.IDResultsOrigin)
	assert.False(t, ok)
}

func TestInitialTripTypeAndBadPredicate(t *testing.T) {
	m := newTestModel(t, func(o *Options) { o.TripType = widget.TripOneWay })
	ret, _ := m.Page().Element(widget.IDReturnDate)
	assert.True(t, ret.Disabled)

	_, err := New(context.Background(), Options{Dataset: testDataset(), ReturnActive: "form.trip_type"})
	assert.Error(t, err)
}
