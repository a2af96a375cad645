package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorNavigation(t *testing.T) {
	tests := []struct {
		name  string
		start int
		n     int
		move  func(*Cursor, int)
		want  int
	}{
		{"down from none", None, 3, (*Cursor).Next, 0},
		{"up from none", None, 3, (*Cursor).Prev, 2},
		{"down from last wraps", 2, 3, (*Cursor).Next, 0},
		{"up from first wraps", 0, 3, (*Cursor).Prev, 2},
		{"down middle", 0, 3, (*Cursor).Next, 1},
		{"up middle", 2, 3, (*Cursor).Prev, 1},
		{"down on empty list", None, 0, (*Cursor).Next, None},
		{"up on empty list", None, 0, (*Cursor).Prev, None},
		{"single row down", 0, 1, (*Cursor).Next, 0},
		{"stale index down", 7, 3, (*Cursor).Next, 0},
		{"stale index up", 7, 3, (*Cursor).Prev, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cursor{index: tt.start}
			tt.move(&c, tt.n)
			assert.Equal(t, tt.want, c.Index())
		})
	}
}

func TestCursorValidAndReset(t *testing.T) {
	c := NewCursor()
	assert.Equal(t, None, c.Index())
	assert.False(t, c.Valid(3))

	c.Next(3)
	assert.True(t, c.Valid(3))
	assert.False(t, c.Valid(0))

	c.Reset()
	assert.Equal(t, None, c.Index())
}
