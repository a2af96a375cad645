package rules

import (
	"fmt"
	"time"

	"github.com/oakwood-commons/flightform/internal/widget"
	"github.com/oakwood-commons/flightform/pkg/settings"
)

// Violation is a field that fails its min or required constraint, the way a
// browser blocks submission of an invalid date input.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) Error() string { return v.Field + ": " + v.Message }

// Validate checks the date elements' required and min constraints. Disabled
// and hidden elements are skipped.
func Validate(page *widget.Page) []Violation {
	var out []Violation
	for _, id := range []string{widget.IDOrigin, widget.IDDestination, widget.IDDepartureDate, widget.IDReturnDate} {
		el, ok := page.Element(id)
		if !ok || el.Disabled || el.Hidden {
			continue
		}
		if v, bad := check(el, id == widget.IDDepartureDate || id == widget.IDReturnDate); bad {
			out = append(out, v)
		}
	}
	return out
}

func check(el *widget.Element, isDate bool) (Violation, bool) {
	required := el.Required || el.ID == widget.IDOrigin || el.ID == widget.IDDestination || el.ID == widget.IDDepartureDate
	if el.Value == "" {
		if required {
			return Violation{Field: el.ID, Message: "required"}, true
		}
		return Violation{}, false
	}
	if !isDate {
		return Violation{}, false
	}
	value, err := time.Parse(settings.DateLayout, el.Value)
	if err != nil {
		return Violation{Field: el.ID, Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", el.Value)}, true
	}
	if el.Min == "" {
		return Violation{}, false
	}
	minDate, err := time.Parse(settings.DateLayout, el.Min)
	if err == nil && value.Before(minDate) {
		return Violation{Field: el.ID, Message: "must be on or after " + el.Min}, true
	}
	return Violation{}, false
}
