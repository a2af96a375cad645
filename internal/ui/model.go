// Package ui is the terminal front end of the flight search form. It hosts a
// widget.Page, translates key presses into page events and draws the fields,
// the open suggestion dropdown and any validation errors.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/flightform/internal/config"
	"github.com/oakwood-commons/flightform/internal/rules"
	"github.com/oakwood-commons/flightform/internal/widget"
	"github.com/oakwood-commons/flightform/pkg/airports"
	"github.com/oakwood-commons/flightform/pkg/logger"
)

const (
	labelWidth   = 14
	defaultWidth = 80
)

type fieldKind int

const (
	kindAirport fieldKind = iota
	kindDate
	kindChoice
)

type field struct {
	id    string
	label string
	kind  fieldKind
	input textinput.Model
}

// Options configures a Model.
type Options struct {
	AppName string
	// Dataset is shared by every autocomplete input. Nil creates an empty one.
	Dataset *airports.Dataset
	// Source is loaded into Dataset by Init. Nil expects Dataset to be
	// loaded by the caller.
	Source airports.Source
	// LoadTimeout bounds the dataset fetch; zero means no limit.
	LoadTimeout time.Duration

	ResultsView  bool
	TripType     string
	ReturnActive string
	Now          func() time.Time
	Theme        config.ThemeConfig
	NoColor      bool
}

// Model is the bubbletea model of the form.
type Model struct {
	ctx     context.Context
	log     logr.Logger
	appName string

	page    *widget.Page
	rules   *rules.Rules
	widgets map[string]*widget.Autocomplete
	dataset *airports.Dataset
	source  airports.Source
	timeout time.Duration

	fields []*field
	focus  int

	theme   Theme
	noColor bool
	width   int
	height  int

	loaded     bool
	loadErr    error
	violations []rules.Violation
	submitted  bool
	quitting   bool
}

type datasetReadyMsg struct{ err error }

// New builds the form page, attaches autocomplete to the airport inputs and
// binds the date rules.
func New(ctx context.Context, opts Options) (*Model, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ds := opts.Dataset
	if ds == nil {
		ds = airports.NewDataset()
	}
	page := widget.NewFormPage(opts.ResultsView)
	if opts.TripType != "" {
		trip, _ := page.Element(widget.IDTripType)
		trip.Value = opts.TripType
	}

	attached, err := widget.AttachForm(ctx, page, ds)
	if err != nil {
		return nil, err
	}
	r, err := rules.Bind(ctx, page, rules.Options{Now: opts.Now, ReturnActive: opts.ReturnActive})
	if err != nil {
		return nil, err
	}

	m := &Model{
		ctx:     ctx,
		log:     *logger.ForComponent(ctx, "ui"),
		appName: opts.AppName,
		page:    page,
		rules:   r,
		widgets: make(map[string]*widget.Autocomplete, len(attached)),
		dataset: ds,
		source:  opts.Source,
		timeout: opts.LoadTimeout,
		theme:   NewTheme(opts.Theme, opts.NoColor),
		noColor: opts.NoColor,
		width:   defaultWidth,
		loaded:  ds.IsReady(),
		loadErr: ds.Err(),
	}
	if m.appName == "" {
		m.appName = "flightform"
	}
	for _, w := range attached {
		m.widgets[w.Input().ID] = w
	}

	layout := []struct{ id, label string }{
		{widget.IDOrigin, "From"},
		{widget.IDDestination, "To"},
		{widget.IDDepartureDate, "Depart"},
		{widget.IDTripType, "Trip"},
		{widget.IDReturnDate, "Return"},
		{widget.IDResultsOrigin, "Results from"},
		{widget.IDResultsDestination, "Results to"},
	}
	for _, l := range layout {
		id := l.id
		if _, ok := page.Element(id); !ok {
			continue
		}
		f := &field{id: id, label: l.label}
		switch id {
		case widget.IDTripType:
			f.kind = kindChoice
		case widget.IDDepartureDate, widget.IDReturnDate:
			f.kind = kindDate
			f.input = newInput("YYYY-MM-DD", 10)
		default:
			f.input = newInput("city, code or airport", 64)
		}
		m.fields = append(m.fields, f)
	}
	m.resize(m.width)
	m.focus = -1
	m.setFocus(0)
	return m, nil
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	ti.SetValue("")
	return ti
}

// Init starts loading the airport dataset.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadDataset())
}

func (m *Model) loadDataset() tea.Cmd {
	ds, src, ctx := m.dataset, m.source, m.ctx
	if src == nil {
		if !ds.IsReady() {
			return nil
		}
		return func() tea.Msg { return datasetReadyMsg{err: ds.Err()} }
	}
	timeout := m.timeout
	return func() tea.Msg {
		return datasetReadyMsg{err: loadWithTimeout(ctx, ds, src, timeout)}
	}
}

func loadWithTimeout(ctx context.Context, ds *airports.Dataset, src airports.Source, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return ds.Load(ctx, src)
}

// Update handles a message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.resize(msg.Width)
		return m, nil
	case datasetReadyMsg:
		m.datasetReady(msg.err)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	if f := m.focused(); f != nil && f.kind != kindChoice {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) datasetReady(err error) {
	m.loaded = true
	m.loadErr = err
	if err != nil {
		m.log.Error(err, "airport suggestions unavailable")
	} else {
		m.log.V(1).Info("airport data ready", "count", m.dataset.Len())
	}
	for _, w := range m.widgets {
		w.Refresh()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	keyStr := msg.String()
	switch keyStr {
	case "ctrl+c":
		m.quitting = true
		return tea.Quit
	case "ctrl+s":
		return m.submit()
	case "esc":
		m.page.Click(nil)
		return nil
	case "tab", "down":
		if keyStr == "tab" || !m.dropdownOpen() {
			return m.moveFocus(1)
		}
	case "shift+tab", "up":
		if keyStr == "shift+tab" || !m.dropdownOpen() {
			return m.moveFocus(-1)
		}
	}

	f := m.focused()
	if f == nil {
		return nil
	}
	switch f.kind {
	case kindAirport:
		if key := navKey(keyStr); key != widget.KeyOther {
			prevented, err := m.page.KeyDown(f.id, key)
			if err != nil {
				m.log.Error(err, "keydown dispatch failed")
				return nil
			}
			m.syncInputs()
			if key == widget.KeyEnter && !prevented {
				return m.submit()
			}
			return nil
		}
	case kindChoice:
		switch keyStr {
		case "left", "right", "space", " ", "h", "l":
			m.toggleTripType()
		case "enter":
			return m.submit()
		}
		return nil
	case kindDate:
		if keyStr == "enter" {
			return m.submit()
		}
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if after := f.input.Value(); after != before {
		m.edited(f, after)
	}
	return cmd
}

func navKey(keyStr string) widget.Key {
	switch keyStr {
	case "down":
		return widget.KeyDown
	case "up":
		return widget.KeyUp
	case "enter":
		return widget.KeyEnter
	default:
		return widget.KeyOther
	}
}

func (m *Model) edited(f *field, value string) {
	switch f.kind {
	case kindAirport:
		if err := m.page.Input(f.id, value); err != nil {
			m.log.Error(err, "input dispatch failed")
		}
	case kindDate:
		// committed with a change event when the field loses focus
		if el, ok := m.page.Element(f.id); ok {
			el.Value = value
		}
	}
}

func (m *Model) dropdownOpen() bool {
	f := m.focused()
	if f == nil || f.kind != kindAirport {
		return false
	}
	w, ok := m.widgets[f.id]
	return ok && w.Dropdown() != nil
}

func (m *Model) focused() *field {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return m.fields[m.focus]
}

func (m *Model) usable(f *field) bool {
	el, ok := m.page.Element(f.id)
	return ok && !el.Hidden && !el.Disabled
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	n := len(m.fields)
	for step := 1; step <= n; step++ {
		i := ((m.focus+delta*step)%n + n) % n
		if m.usable(m.fields[i]) {
			return m.setFocus(i)
		}
	}
	return nil
}

func (m *Model) setFocus(i int) tea.Cmd {
	if prev := m.focused(); prev != nil {
		if prev.kind == kindDate {
			m.commitDate(prev)
		}
		if prev.kind != kindChoice {
			prev.input.Blur()
		}
	}
	m.focus = i
	f := m.focused()
	if f == nil {
		return nil
	}
	if el, ok := m.page.Element(f.id); ok {
		m.page.Click(el)
	}
	if f.kind == kindChoice {
		return nil
	}
	return f.input.Focus()
}

func (m *Model) commitDate(f *field) {
	el, ok := m.page.Element(f.id)
	if !ok || el.Disabled {
		return
	}
	if err := m.page.Change(f.id, f.input.Value()); err != nil {
		m.log.Error(err, "change dispatch failed")
	}
}

func (m *Model) toggleTripType() {
	el, _ := m.page.Element(widget.IDTripType)
	next := widget.TripOneWay
	if el.Value == widget.TripOneWay {
		next = widget.TripRoundTrip
	}
	if err := m.page.Change(widget.IDTripType, next); err != nil {
		m.log.Error(err, "change dispatch failed")
		return
	}
	m.syncInputs()
}

// syncInputs copies element values changed by handlers (a chosen suggestion,
// a cleared return date) back into the text inputs.
func (m *Model) syncInputs() {
	for _, f := range m.fields {
		if f.kind == kindChoice {
			continue
		}
		el, ok := m.page.Element(f.id)
		if !ok || el.Value == f.input.Value() {
			continue
		}
		f.input.SetValue(el.Value)
		f.input.CursorEnd()
	}
}

func (m *Model) submit() tea.Cmd {
	for _, f := range m.fields {
		if f.kind == kindDate {
			m.commitDate(f)
		}
	}
	m.page.Click(nil)
	m.violations = rules.Validate(m.page)
	if len(m.violations) > 0 {
		m.log.V(1).Info("submission blocked", "violations", len(m.violations))
		return nil
	}
	m.submitted = true
	return tea.Quit
}

func (m *Model) resize(width int) {
	if width <= 0 {
		width = defaultWidth
	}
	m.width = width
	inputWidth := max(width-labelWidth-4, 10)
	for _, f := range m.fields {
		if f.kind != kindChoice {
			f.input.SetWidth(inputWidth)
		}
	}
}

// Page returns the hosted form page.
func (m *Model) Page() *widget.Page { return m.page }

// Value returns the current value of element id.
func (m *Model) Value(id string) string {
	if el, ok := m.page.Element(id); ok {
		return el.Value
	}
	return ""
}

// Focused returns the id of the focused field.
func (m *Model) Focused() string {
	if f := m.focused(); f != nil {
		return f.id
	}
	return ""
}

// Widget returns the autocomplete attached to id.
func (m *Model) Widget(id string) (*widget.Autocomplete, bool) {
	w, ok := m.widgets[id]
	return w, ok
}

// Violations returns the errors that blocked the last submission.
func (m *Model) Violations() []rules.Violation { return m.violations }

// Submitted reports whether the form was submitted successfully.
func (m *Model) Submitted() bool { return m.submitted }

// Submission returns the values a submitted form sends: every enabled input,
// keyed by element id.
func (m *Model) Submission() map[string]string {
	out := make(map[string]string)
	for _, f := range m.fields {
		el, ok := m.page.Element(f.id)
		if !ok || el.Disabled {
			continue
		}
		out[f.id] = el.Value
	}
	return out
}

// View renders the form.
func (m *Model) View() tea.View {
	view := m.Render()
	if m.height > 0 {
		if lines := strings.Split(view, "\n"); len(lines) > m.height {
			view = strings.Join(lines[:m.height], "\n")
		}
	}
	v := tea.NewView(view)
	v.AltScreen = true
	return v
}

// Render draws the form as a string.
func (m *Model) Render() string {
	th := m.theme
	var b strings.Builder
	b.WriteString(th.Title.Render(m.appName + " - flight search"))
	b.WriteString(th.Muted.Render("  today " + m.rules.Today()))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		el, ok := m.page.Element(f.id)
		if !ok || el.Hidden {
			continue
		}
		label := fmt.Sprintf("%-*s", labelWidth, f.label)
		if i == m.focus {
			b.WriteString(th.Focused.Render("> " + label))
		} else {
			b.WriteString(th.Label.Render("  " + label))
		}
		switch f.kind {
		case kindChoice:
			b.WriteString(m.renderChoice(el.Value))
		default:
			b.WriteString(f.input.View())
		}
		if f.kind == kindDate && el.Min != "" {
			b.WriteString(th.Muted.Render("  earliest " + el.Min))
		}
		b.WriteString("\n")
		if f.kind == kindAirport {
			b.WriteString(m.renderDropdown(f.id))
		}
	}

	if len(m.violations) > 0 {
		b.WriteString("\n")
		for _, v := range m.violations {
			b.WriteString(th.Error.Render("! " + v.Error()))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(th.Muted.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(th.Muted.Render("tab/shift+tab move  up/down highlight  enter pick  esc close  space toggle trip  ctrl+s search  ctrl+c quit"))

	out := b.String()
	if m.noColor {
		out = stripANSIExceptInverse(out)
	}
	return out
}

func (m *Model) renderChoice(value string) string {
	mark := func(on bool) string {
		if on {
			return "(*)"
		}
		return "( )"
	}
	return fmt.Sprintf("%s round-trip  %s one-way", mark(value != widget.TripOneWay), mark(value == widget.TripOneWay))
}

func (m *Model) renderDropdown(id string) string {
	w, ok := m.widgets[id]
	if !ok {
		return ""
	}
	d := w.Dropdown()
	if d == nil {
		return ""
	}
	indent := strings.Repeat(" ", labelWidth+2)
	maxLabel := max(m.width-len(indent)-2, 8)
	var b strings.Builder
	if d.Len() == 0 {
		hint := "no matching airports"
		if !m.loaded {
			hint = "loading airports..."
		}
		b.WriteString(indent + m.theme.Muted.Render(hint) + "\n")
		return b.String()
	}
	for _, row := range d.Rows() {
		label := runewidth.Truncate(row.Label, maxLabel, "…")
		style := m.theme.Row
		if row.Active() {
			style = m.theme.ActiveRow
		}
		b.WriteString(indent + style.Render(label) + "\n")
	}
	return b.String()
}

func (m *Model) statusLine() string {
	switch {
	case !m.loaded:
		return "loading airport data..."
	case m.loadErr != nil:
		return "airport suggestions unavailable: " + m.loadErr.Error()
	default:
		return fmt.Sprintf("%d airports from %s", m.dataset.Len(), m.dataset.Source())
	}
}
