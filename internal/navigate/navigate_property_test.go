package navigate

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: pages partition the list — advancing from the first page to the
// last visits every index exactly once, with no overlap and no gap.
func TestProperty_PagesPartitionList(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("windows cover each index exactly once", prop.ForAll(
		func(length int) bool {
			p := NewPageCursor(length)
			seen := make([]int, length)
			for {
				from, to := p.Window()
				if to-from > PageSize {
					t.Logf("window wider than page size: [%d,%d)", from, to)
					return false
				}
				for i := from; i < to; i++ {
					seen[i]++
				}
				if !p.Advance() {
					break
				}
			}
			for i, n := range seen {
				if n != 1 {
					t.Logf("index %d visited %d times (length %d)", i, n, length)
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 50),
	))

	properties.Property("advance then retreat returns to the same page", prop.ForAll(
		func(length, moves int) bool {
			p := NewPageCursor(length)
			for i := 0; i < moves; i++ {
				p.Advance()
			}
			start := p.Start()
			if p.Advance() {
				p.Retreat()
			}
			return p.Start() == start
		},
		gen.IntRange(1, 50),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

// Property: the record cursor never leaves [1, total], whatever the movement
// sequence.
func TestProperty_CursorStaysInBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("cursor index always within [1, total]", prop.ForAll(
		func(total int, moves []int) bool {
			c := NewCursor(total)
			for _, m := range moves {
				switch m % 4 {
				case 0:
					c.Next()
				case 1:
					c.Prev()
				case 2:
					c.First()
				case 3:
					c.Last()
				}
				if c.Current() < 1 || c.Current() > total {
					t.Logf("cursor escaped bounds: %d of %d", c.Current(), total)
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 30),
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}
