package widget

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/flightform/internal/suggest"
	"github.com/oakwood-commons/flightform/pkg/logger"
)

// Autocomplete attaches airport suggestions to one text input.
type Autocomplete struct {
	page   *Page
	input  *Element
	engine *suggest.Engine
	cursor suggest.Cursor
	log    logr.Logger
}

// Attach binds autocomplete behavior to the input with id. Attaching the same
// input twice returns the existing widget. Widgets on one page may share a
// provider; records are read through it on every keystroke, so a widget
// attached before the data arrives simply shows nothing until then.
func Attach(ctx context.Context, page *Page, id string, provider suggest.Provider) (*Autocomplete, error) {
	input, err := page.Require(id)
	if err != nil {
		return nil, err
	}
	if w, ok := page.widgets[input]; ok {
		return w, nil
	}

	w := &Autocomplete{
		page:   page,
		input:  input,
		engine: suggest.NewEngine(provider),
		cursor: suggest.NewCursor(),
		log:    logger.ForComponent(ctx, "autocomplete").WithValues(logger.ElementKey, id),
	}
	page.widgets[input] = w

	input.On(EventInput, func(*Event) { w.OnTextChanged(input.Value) })
	input.On(EventKeyDown, w.OnKeyDown)
	page.OnDocument(EventClick, func(ev *Event) { w.CloseAllDropdowns(ev.Target) })
	return w, nil
}

// AttachOptional attaches to id when the element exists and reports whether
// it did.
func AttachOptional(ctx context.Context, page *Page, id string, provider suggest.Provider) (*Autocomplete, bool) {
	if _, ok := page.Element(id); !ok {
		logger.ForComponent(ctx, "autocomplete").V(1).Info("optional input absent, skipping", logger.ElementKey, id)
		return nil, false
	}
	w, err := Attach(ctx, page, id, provider)
	return w, err == nil
}

// AttachForm wires the origin and destination inputs, which must exist, and
// the secondary results inputs when present.
func AttachForm(ctx context.Context, page *Page, provider suggest.Provider) ([]*Autocomplete, error) {
	var widgets []*Autocomplete
	for _, id := range []string{IDOrigin, IDDestination} {
		w, err := Attach(ctx, page, id, provider)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}
	for _, id := range []string{IDResultsOrigin, IDResultsDestination} {
		if w, ok := AttachOptional(ctx, page, id, provider); ok {
			widgets = append(widgets, w)
		}
	}
	return widgets, nil
}

// Input returns the bound element.
func (w *Autocomplete) Input() *Element { return w.input }

// Cursor returns the highlighted row index, or suggest.None when nothing is
// highlighted or no dropdown is open.
func (w *Autocomplete) Cursor() int {
	if w.Dropdown() == nil {
		return suggest.None
	}
	return w.cursor.Index()
}

// Dropdown returns this input's open dropdown, or nil.
func (w *Autocomplete) Dropdown() *Dropdown { return w.page.DropdownFor(w.input) }

// OnTextChanged rebuilds the suggestion dropdown for text. Every open
// dropdown on the page is closed first; empty text leaves none open.
func (w *Autocomplete) OnTextChanged(text string) {
	w.CloseAllDropdowns(nil)
	if text == "" {
		return
	}
	w.cursor.Reset()

	matches := w.engine.Suggest(text)
	d := w.page.openDropdown(w.input)
	for _, rec := range matches {
		code := rec.Code
		d.addRow(rec, func(*Event) { w.choose(code) })
	}
	w.log.V(1).Info("suggestions", "query", text, "count", len(matches))
}

// OnKeyDown handles navigation keys while this input's dropdown is open.
func (w *Autocomplete) OnKeyDown(ev *Event) {
	d := w.Dropdown()
	if d == nil {
		return
	}
	switch ev.Key {
	case KeyDown:
		w.cursor.Next(d.Len())
		d.setActive(w.cursor.Index())
	case KeyUp:
		w.cursor.Prev(d.Len())
		d.setActive(w.cursor.Index())
	case KeyEnter:
		ev.PreventDefault()
		if w.cursor.Valid(d.Len()) {
			w.page.Click(d.rows[w.cursor.Index()])
		}
	}
}

// CloseAllDropdowns removes every dropdown on the page except the one except
// belongs to (the dropdown itself, one of its rows or its input).
func (w *Autocomplete) CloseAllDropdowns(except Target) {
	w.page.CloseDropdowns(except)
}

// Refresh recomputes the suggestions for the current text if this input has
// a dropdown open. Hosts call it once the dataset becomes ready so text typed
// during loading gets its suggestions.
func (w *Autocomplete) Refresh() {
	if w.Dropdown() == nil {
		return
	}
	w.OnTextChanged(w.input.Value)
}

func (w *Autocomplete) choose(code string) {
	w.input.Value = code
	w.CloseAllDropdowns(nil)
	w.log.V(1).Info("suggestion selected", "code", code)
}
