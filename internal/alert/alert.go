// Package alert decides what a price alert built from a submitted search
// should do given a set of fare quotes: expire, report a price drop, or wait.
package alert

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/flightform/internal/widget"
	"github.com/oakwood-commons/flightform/pkg/settings"
)

// ErrInvalidAlert wraps every validation failure of an Alert.
var ErrInvalidAlert = errors.New("invalid alert")

// Outcome is the result of evaluating an alert.
type Outcome string

const (
	OutcomeExpired   Outcome = "expired"
	OutcomePriceDrop Outcome = "price-drop"
	OutcomeNoDrop    Outcome = "no-drop"
)

// Alert is a submitted search plus the price the traveller is waiting for.
// Field names match the form's element ids so a form submission decodes
// directly into it.
type Alert struct {
	Origin        string  `json:"origin" yaml:"origin"`
	Destination   string  `json:"destination" yaml:"destination"`
	DepartureDate string  `json:"departure_date" yaml:"departure_date"`
	ReturnDate    string  `json:"return_date,omitempty" yaml:"return_date,omitempty"`
	TripType      string  `json:"trip_type" yaml:"trip_type"`
	Threshold     float64 `json:"price_threshold" yaml:"price_threshold"`
}

// Quote is one fare offered for the alert's route and dates.
type Quote struct {
	Price   float64 `json:"price" yaml:"price"`
	Airline string  `json:"airline,omitempty" yaml:"airline,omitempty"`
}

// Decision is the outcome of Evaluate. Threshold is the threshold the alert
// should carry afterwards: lowered to the quote's price on a drop so only a
// further drop triggers again.
type Decision struct {
	Outcome   Outcome `json:"outcome" yaml:"outcome"`
	Quote     *Quote  `json:"quote,omitempty" yaml:"quote,omitempty"`
	Threshold float64 `json:"price_threshold" yaml:"price_threshold"`
}

// OneWay reports whether the alert has no return leg.
func (a Alert) OneWay() bool { return a.TripType == widget.TripOneWay }

// Validate checks the fields Evaluate relies on.
func (a Alert) Validate() error {
	if a.Origin == "" || a.Destination == "" {
		return fmt.Errorf("%w: origin and destination are required", ErrInvalidAlert)
	}
	if _, err := time.Parse(settings.DateLayout, a.DepartureDate); err != nil {
		return fmt.Errorf("%w: departure_date %q is not a YYYY-MM-DD date", ErrInvalidAlert, a.DepartureDate)
	}
	if !a.OneWay() && a.ReturnDate != "" {
		if _, err := time.Parse(settings.DateLayout, a.ReturnDate); err != nil {
			return fmt.Errorf("%w: return_date %q is not a YYYY-MM-DD date", ErrInvalidAlert, a.ReturnDate)
		}
	}
	if a.Threshold <= 0 {
		return fmt.Errorf("%w: price_threshold must be positive", ErrInvalidAlert)
	}
	return nil
}

// Evaluate decides the alert's fate on the given day. An alert whose
// departure is before today expires regardless of quotes. Otherwise the
// first quote strictly below the threshold, in the order given, is a drop.
func Evaluate(a Alert, quotes []Quote, today time.Time) (Decision, error) {
	if err := a.Validate(); err != nil {
		return Decision{}, err
	}
	// DateLayout sorts lexically in date order.
	if a.DepartureDate < today.Format(settings.DateLayout) {
		return Decision{Outcome: OutcomeExpired, Threshold: a.Threshold}, nil
	}
	for _, q := range quotes {
		if q.Price < a.Threshold {
			return Decision{Outcome: OutcomePriceDrop, Quote: &q, Threshold: q.Price}, nil
		}
	}
	return Decision{Outcome: OutcomeNoDrop, Threshold: a.Threshold}, nil
}

// Decode reads an alert from a YAML or JSON document, typically the form's
// submission output.
func Decode(data []byte) (Alert, error) {
	var a Alert
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Alert{}, fmt.Errorf("%w: %w", ErrInvalidAlert, err)
	}
	return a, nil
}

// DecodeQuotes reads quotes from a YAML or JSON sequence, or a document
// wrapping one under "quotes".
func DecodeQuotes(data []byte) ([]Quote, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		var doc struct {
			Quotes []Quote `yaml:"quotes"`
		}
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode quotes: %w", err)
		}
		return doc.Quotes, nil
	}
	var quotes []Quote
	if err := root.Decode(&quotes); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}
	return quotes, nil
}
