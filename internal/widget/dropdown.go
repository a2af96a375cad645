package widget

import "github.com/oakwood-commons/flightform/pkg/airports"

// Dropdown is a rendered suggestion list anchored under an input.
type Dropdown struct {
	owner   *Element
	rows    []*Row
	removed bool
}

func (d *Dropdown) within(other *Dropdown) bool { return d != nil && d == other }

// Owner returns the input the dropdown belongs to.
func (d *Dropdown) Owner() *Element { return d.owner }

// Rows returns the dropdown rows in display order.
func (d *Dropdown) Rows() []*Row { return d.rows }

// Len returns the number of rows.
func (d *Dropdown) Len() int { return len(d.rows) }

// Removed reports whether the dropdown has been closed.
func (d *Dropdown) Removed() bool { return d.removed }

// Active returns the index of the highlighted row, or -1.
func (d *Dropdown) Active() int {
	for i, r := range d.rows {
		if r.active {
			return i
		}
	}
	return -1
}

// setActive highlights row i and clears every other row. An out of range i
// clears all highlights.
func (d *Dropdown) setActive(i int) {
	for j, r := range d.rows {
		r.active = j == i
	}
}

func (d *Dropdown) addRow(rec airports.Record, onClick Handler) *Row {
	r := &Row{dropdown: d, Record: rec, Label: rec.Label(), onClick: onClick}
	d.rows = append(d.rows, r)
	return r
}

// Row is one selectable suggestion.
type Row struct {
	Record airports.Record
	Label  string

	dropdown *Dropdown
	active   bool
	onClick  Handler
}

func (r *Row) within(d *Dropdown) bool { return r != nil && r.dropdown == d }

// Active reports whether the row is highlighted.
func (r *Row) Active() bool { return r.active }
