// Package navigate provides the record cursor and the fixed-stride page
// cursors the cancel/modify/query flows step through results with.
package navigate

// PageSize is the fixed number of detail rows shown per page.
const PageSize = 3

// Cursor walks a result set by 1-based index. It never holds record data:
// after every movement the caller reloads the record at Current. Movement
// clamps at [1, total] — walking past either end is a no-op, not an error.
type Cursor struct {
	current int
	total   int
}

// NewCursor creates a cursor over total records, positioned on the first.
func NewCursor(total int) *Cursor {
	c := &Cursor{total: total}
	if total > 0 {
		c.current = 1
	}
	return c
}

// Current returns the 1-based index of the current record (0 when empty).
func (c *Cursor) Current() int { return c.current }

// Total returns the result set size.
func (c *Cursor) Total() int { return c.total }

// Next moves forward one record and returns the new index.
func (c *Cursor) Next() int {
	if c.current < c.total {
		c.current++
	}
	return c.current
}

// Prev moves back one record and returns the new index.
func (c *Cursor) Prev() int {
	if c.current > 1 {
		c.current--
	}
	return c.current
}

// First moves to the first record and returns the new index.
func (c *Cursor) First() int {
	if c.total > 0 {
		c.current = 1
	}
	return c.current
}

// Last moves to the last record and returns the new index.
func (c *Cursor) Last() int {
	c.current = c.total
	return c.current
}

// PageCursor pages over a detail list with a fixed stride of PageSize.
// Start is 1-based. Advancing past the end or retreating past the start is a
// no-op; the sell and buy lists each carry their own independent cursor.
type PageCursor struct {
	start  int
	length int
}

// NewPageCursor creates a page cursor over a list of the given length.
func NewPageCursor(length int) *PageCursor {
	return &PageCursor{start: 1, length: length}
}

// Start returns the 1-based index of the first row on the current page.
func (p *PageCursor) Start() int { return p.start }

// Reset rewinds to the first page, adopting a new list length.
func (p *PageCursor) Reset(length int) {
	p.start = 1
	p.length = length
}

// Advance moves to the next page. Reports whether the cursor moved.
func (p *PageCursor) Advance() bool {
	if p.start+PageSize > p.length {
		return false
	}
	p.start += PageSize
	return true
}

// Retreat moves to the previous page. Reports whether the cursor moved.
func (p *PageCursor) Retreat() bool {
	if p.start-PageSize <= 0 {
		return false
	}
	p.start -= PageSize
	return true
}

// Window returns the current page as a half-open zero-based slice range
// [from, to), at most PageSize wide.
func (p *PageCursor) Window() (from, to int) {
	from = p.start - 1
	to = p.start - 1 + PageSize
	if to > p.length {
		to = p.length
	}
	if from > to {
		from = to
	}
	return from, to
}
