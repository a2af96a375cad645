package suggest

// None is the cursor index when no row is highlighted.
const None = -1

// Cursor is the keyboard highlight within an open suggestion list. Movement
// wraps around both ends; on an empty list it does nothing.
type Cursor struct {
	index int
}

// NewCursor returns a cursor pointing at None.
func NewCursor() Cursor {
	return Cursor{index: None}
}

// Index returns the highlighted row or None.
func (c Cursor) Index() int { return c.index }

// Reset moves the cursor back to None.
func (c *Cursor) Reset() { c.index = None }

// Valid reports whether the cursor points at one of n rows.
func (c Cursor) Valid(n int) bool {
	return c.index >= 0 && c.index < n
}

// Next advances to the following row of n, wrapping to 0 after the last.
func (c *Cursor) Next(n int) {
	if n <= 0 {
		return
	}
	next := c.index + 1
	if next < 0 || next >= n {
		next = 0
	}
	c.index = next
}

// Prev moves to the preceding row of n, wrapping to n-1 before 0.
func (c *Cursor) Prev(n int) {
	if n <= 0 {
		return
	}
	prev := c.index - 1
	if prev < 0 || prev >= n {
		prev = n - 1
	}
	c.index = prev
}
