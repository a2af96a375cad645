// Package rules keeps the date fields of the flight search form consistent:
// departure can not be in the past, return can not precede departure, and
// the return date only applies to trips that come back.
package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/flightform/internal/widget"
	"github.com/oakwood-commons/flightform/pkg/logger"
	"github.com/oakwood-commons/flightform/pkg/settings"
)

// Options configures Bind.
type Options struct {
	// Now supplies today's date; defaults to time.Now.
	Now func() time.Time
	// ReturnActive is a CEL predicate over the form values deciding whether
	// the return date is in use. Defaults to DefaultReturnActive.
	ReturnActive string
}

// Rules is the set of field rules bound to one page.
type Rules struct {
	page      *widget.Page
	departure *widget.Element
	ret       *widget.Element
	group     *widget.Element
	tripType  *widget.Element
	now       func() time.Time
	predicate *Predicate
	log       logr.Logger
}

// Bind wires the rules to page: it sets the departure minimum to today,
// applies the current trip type, and registers change handlers on the
// departure date and trip type. The return_date_group element is optional.
func Bind(ctx context.Context, page *widget.Page, opts Options) (*Rules, error) {
	r := &Rules{
		page: page,
		now:  opts.Now,
		log:  *logger.ForComponent(ctx, "rules"),
	}
	if r.now == nil {
		r.now = time.Now
	}

	var err error
	for id, dst := range map[string]**widget.Element{
		widget.IDDepartureDate: &r.departure,
		widget.IDReturnDate:    &r.ret,
		widget.IDTripType:      &r.tripType,
	} {
		if *dst, err = page.Require(id); err != nil {
			return nil, err
		}
	}
	r.group, _ = page.Element(widget.IDReturnDateGroup)

	expr := opts.ReturnActive
	if expr == "" {
		expr = DefaultReturnActive
	}
	if r.predicate, err = CompilePredicate(expr); err != nil {
		return nil, fmt.Errorf("return date rule: %w", err)
	}

	r.Init()
	r.departure.On(widget.EventChange, func(*widget.Event) { r.OnDepartureChanged(r.departure.Value) })
	r.tripType.On(widget.EventChange, func(*widget.Event) { r.OnTripTypeChanged(r.tripType.Value) })
	r.applyTripType()
	return r, nil
}

// Today returns the current date in settings.DateLayout.
func (r *Rules) Today() string {
	return r.now().Format(settings.DateLayout)
}

// Init sets the earliest selectable departure date to today.
func (r *Rules) Init() {
	r.departure.Min = r.Today()
}

// OnDepartureChanged moves the earliest selectable return date to the chosen
// departure. A malformed date leaves the current minimum in place.
func (r *Rules) OnDepartureChanged(value string) {
	if value != "" {
		if _, err := time.Parse(settings.DateLayout, value); err != nil {
			r.log.Info("ignoring malformed departure date", "value", value, "error", err.Error())
			return
		}
	}
	r.ret.Min = value
}

// OnTripTypeChanged records the selected trip type and toggles the return
// date accordingly.
func (r *Rules) OnTripTypeChanged(value string) {
	r.tripType.Value = value
	r.applyTripType()
}

// ReturnActive evaluates the return-date predicate against the current form.
func (r *Rules) ReturnActive() bool {
	active, err := r.predicate.Eval(FormValues(r.page))
	if err != nil {
		r.log.Error(err, "return date rule failed, falling back to trip type check")
		return r.tripType.Value != widget.TripOneWay
	}
	return active
}

func (r *Rules) applyTripType() {
	active := r.ReturnActive()
	r.ret.Disabled = !active
	r.ret.Required = active
	r.ret.Hidden = !active
	if !active {
		r.ret.Value = ""
	}
	if r.group != nil {
		r.group.Hidden = !active
	}
	r.log.V(1).Info("trip type applied", "trip_type", r.tripType.Value, "return_active", active)
}

// FormValues snapshots every element value keyed by element id.
func FormValues(page *widget.Page) map[string]string {
	values := make(map[string]string)
	for _, id := range page.IDs() {
		if el, ok := page.Element(id); ok {
			values[id] = el.Value
		}
	}
	return values
}
