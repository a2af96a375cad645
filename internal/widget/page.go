// Package widget is a small, host independent element and event model for the
// flight search form, plus the airport autocomplete behavior bound to it.
//
// A Page owns named elements and the dropdowns rendered under them. Hosts
// (the terminal UI, tests) feed user actions in through Input, KeyDown,
// Change and Click; handlers run synchronously in registration order, so all
// behavior happens on the caller's goroutine.
package widget

import (
	"errors"
	"fmt"
	"slices"
)

// Logical element names of the flight search form.
const (
	IDOrigin             = "origin"
	IDDestination        = "destination"
	IDDepartureDate      = "departure_date"
	IDReturnDate         = "return_date"
	IDReturnDateGroup    = "return_date_group"
	IDTripType           = "trip_type"
	IDResultsOrigin      = "results-origin"
	IDResultsDestination = "results-destination"
)

// Trip type values held by the trip_type element.
const (
	TripRoundTrip = "round-trip"
	TripOneWay    = "one-way"
)

// ErrMissingElement is returned when a required element is not on the page.
var ErrMissingElement = errors.New("missing element")

// EventType names a UI event.
type EventType string

const (
	EventInput   EventType = "input"
	EventKeyDown EventType = "keydown"
	EventChange  EventType = "change"
	EventClick   EventType = "click"
)

// Key is a key press relevant to the form.
type Key int

const (
	KeyOther Key = iota
	KeyDown
	KeyUp
	KeyEnter
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	default:
		return "other"
	}
}

// Target is anything an event can be dispatched to or a close can spare:
// *Element, *Dropdown or *Row. A nil Target stands for the page background.
type Target interface {
	// within reports whether the target is d, one of its rows, or its owner.
	within(d *Dropdown) bool
}

// Event is passed to handlers.
type Event struct {
	Type   EventType
	Target Target
	Key    Key

	defaultPrevented bool
}

// PreventDefault suppresses the host's default action (form submission on
// Enter).
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Handler reacts to an event.
type Handler func(*Event)

// Element is a named form control.
type Element struct {
	ID       string
	Value    string
	Min      string
	Disabled bool
	Required bool
	Hidden   bool

	handlers map[EventType][]Handler
}

func (e *Element) within(d *Dropdown) bool { return d != nil && d.owner == e }

// On registers h for events of type typ targeting e.
func (e *Element) On(typ EventType, h Handler) {
	if e.handlers == nil {
		e.handlers = make(map[EventType][]Handler)
	}
	e.handlers[typ] = append(e.handlers[typ], h)
}

func (e *Element) String() string { return e.ID }

// Page holds the form's elements, document-level handlers and the currently
// rendered dropdowns.
type Page struct {
	elements  map[string]*Element
	order     []string
	document  map[EventType][]Handler
	dropdowns []*Dropdown
	widgets   map[*Element]*Autocomplete
}

// NewPage creates a page containing the given element IDs.
func NewPage(ids ...string) *Page {
	p := &Page{
		elements: make(map[string]*Element),
		document: make(map[EventType][]Handler),
		widgets:  make(map[*Element]*Autocomplete),
	}
	for _, id := range ids {
		p.Add(id)
	}
	return p
}

// NewFormPage creates the flight search form. The secondary results inputs
// are only present when withResults is set.
func NewFormPage(withResults bool) *Page {
	p := NewPage(IDOrigin, IDDestination, IDDepartureDate, IDReturnDateGroup, IDReturnDate, IDTripType)
	p.elements[IDTripType].Value = TripRoundTrip
	if withResults {
		p.Add(IDResultsOrigin)
		p.Add(IDResultsDestination)
	}
	return p
}

// Add returns the element with id, creating it if needed.
func (p *Page) Add(id string) *Element {
	if el, ok := p.elements[id]; ok {
		return el
	}
	el := &Element{ID: id}
	p.elements[id] = el
	p.order = append(p.order, id)
	return el
}

// Element looks up an element by id.
func (p *Page) Element(id string) (*Element, bool) {
	el, ok := p.elements[id]
	return el, ok
}

// Require looks up an element that must exist.
func (p *Page) Require(id string) (*Element, error) {
	el, ok := p.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingElement, id)
	}
	return el, nil
}

// IDs lists element ids in creation order.
func (p *Page) IDs() []string {
	return slices.Clone(p.order)
}

// OnDocument registers a page-wide handler, run after target handlers.
func (p *Page) OnDocument(typ EventType, h Handler) {
	p.document[typ] = append(p.document[typ], h)
}

// Input sets the element's value as if typed and fires its input handlers.
func (p *Page) Input(id, value string) error {
	el, err := p.Require(id)
	if err != nil {
		return err
	}
	el.Value = value
	p.fire(el.handlers[EventInput], &Event{Type: EventInput, Target: el})
	return nil
}

// KeyDown fires keydown handlers on the element. It returns true when a
// handler prevented the default action.
func (p *Page) KeyDown(id string, key Key) (bool, error) {
	el, err := p.Require(id)
	if err != nil {
		return false, err
	}
	ev := &Event{Type: EventKeyDown, Target: el, Key: key}
	p.fire(el.handlers[EventKeyDown], ev)
	return ev.DefaultPrevented(), nil
}

// Change commits a new value and fires change handlers.
func (p *Page) Change(id, value string) error {
	el, err := p.Require(id)
	if err != nil {
		return err
	}
	el.Value = value
	p.fire(el.handlers[EventChange], &Event{Type: EventChange, Target: el})
	return nil
}

// Click dispatches a click to target, then to document handlers. A nil
// target is a click on the page background.
func (p *Page) Click(target Target) {
	ev := &Event{Type: EventClick, Target: target}
	switch t := target.(type) {
	case *Element:
		if t != nil {
			p.fire(t.handlers[EventClick], ev)
		}
	case *Row:
		if t != nil && t.onClick != nil {
			t.onClick(ev)
		}
	}
	p.fire(p.document[EventClick], ev)
}

func (p *Page) fire(handlers []Handler, ev *Event) {
	for _, h := range handlers {
		h(ev)
	}
}

// Dropdowns returns the dropdowns currently rendered.
func (p *Page) Dropdowns() []*Dropdown {
	return slices.Clone(p.dropdowns)
}

// DropdownFor returns the open dropdown owned by el, if any.
func (p *Page) DropdownFor(el *Element) *Dropdown {
	for _, d := range p.dropdowns {
		if d.owner == el {
			return d
		}
	}
	return nil
}

// CloseDropdowns removes every dropdown that except is not within and
// returns how many were removed. The owning widget's cursor is reset with
// its dropdown.
func (p *Page) CloseDropdowns(except Target) int {
	kept := p.dropdowns[:0]
	removed := 0
	for _, d := range p.dropdowns {
		if except != nil && except.within(d) {
			kept = append(kept, d)
			continue
		}
		d.removed = true
		if w, ok := p.widgets[d.owner]; ok {
			w.cursor.Reset()
		}
		removed++
	}
	clear(p.dropdowns[len(kept):])
	p.dropdowns = kept
	return removed
}

func (p *Page) openDropdown(owner *Element) *Dropdown {
	d := &Dropdown{owner: owner}
	p.dropdowns = append(p.dropdowns, d)
	return d
}
