package navigate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorClamping(t *testing.T) {
	c := NewCursor(3)
	assert.Equal(t, 1, c.Current())

	assert.Equal(t, 2, c.Next())
	assert.Equal(t, 3, c.Next())
	assert.Equal(t, 3, c.Next(), "clamped at total, no wraparound")

	assert.Equal(t, 2, c.Prev())
	assert.Equal(t, 1, c.Prev())
	assert.Equal(t, 1, c.Prev(), "clamped at 1")

	assert.Equal(t, 3, c.Last())
	assert.Equal(t, 1, c.First())
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor(0)
	assert.Equal(t, 0, c.Current())
	assert.Equal(t, 0, c.Next())
	assert.Equal(t, 0, c.Prev())
	assert.Equal(t, 0, c.First())
	assert.Equal(t, 0, c.Last())
}

func TestPageCursorCoversListWithoutOverlap(t *testing.T) {
	// List of 7, stride 3: pages start at 1, 4, 7 covering {1,2,3},{4,5,6},{7}.
	p := NewPageCursor(7)

	from, to := p.Window()
	assert.Equal(t, []int{0, 3}, []int{from, to})

	assert.True(t, p.Advance())
	from, to = p.Window()
	assert.Equal(t, []int{3, 6}, []int{from, to})

	assert.True(t, p.Advance())
	from, to = p.Window()
	assert.Equal(t, []int{6, 7}, []int{from, to})

	assert.False(t, p.Advance(), "advance from start=7 is a no-op")
	assert.Equal(t, 7, p.Start())

	assert.True(t, p.Retreat())
	assert.True(t, p.Retreat())
	assert.False(t, p.Retreat(), "retreat from start=1 is a no-op")
	assert.Equal(t, 1, p.Start())
}

func TestPageCursorShortAndEmptyLists(t *testing.T) {
	p := NewPageCursor(2)
	from, to := p.Window()
	assert.Equal(t, []int{0, 2}, []int{from, to})
	assert.False(t, p.Advance())

	empty := NewPageCursor(0)
	from, to = empty.Window()
	assert.Equal(t, from, to, "empty window")
	assert.False(t, empty.Advance())
	assert.False(t, empty.Retreat())
}

func TestPageCursorReset(t *testing.T) {
	p := NewPageCursor(9)
	p.Advance()
	p.Advance()
	assert.Equal(t, 7, p.Start())

	p.Reset(4)
	assert.Equal(t, 1, p.Start())
	assert.True(t, p.Advance())
	from, to := p.Window()
	assert.Equal(t, []int{3, 4}, []int{from, to})
}
