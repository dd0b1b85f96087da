package calendar

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: canonical round-trip stability. For any valid date,
// FromCanonical(ToCanonical(t)) == t and re-encoding is a fixed point.
func TestProperty_CanonicalRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ToCanonical/FromCanonical round-trips", prop.ForAll(
		func(days int) bool {
			base := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)
			d := base.AddDate(0, 0, days)

			canonical := ToCanonical(d)
			parsed, err := FromCanonical(canonical)
			if err != nil {
				t.Logf("FromCanonical(%q) failed: %v", canonical, err)
				return false
			}
			if !parsed.Equal(d) {
				t.Logf("round trip moved %v to %v via %q", d, parsed, canonical)
				return false
			}
			return ToCanonical(parsed) == canonical
		},
		gen.IntRange(0, 40*365),
	))

	properties.TestingRun(t)
}

// Property: AddMonths always yields a valid canonical date, and the day never
// grows — it is either preserved or clamped down to the month end.
func TestProperty_AddMonthsClamping(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("AddMonths output is a valid date with day <= source day", prop.ForAll(
		func(days, months int) bool {
			base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
			src := base.AddDate(0, 0, days)
			canonical := ToCanonical(src)

			out, err := AddMonths(canonical, months)
			if err != nil {
				t.Logf("AddMonths(%q, %d) failed: %v", canonical, months, err)
				return false
			}
			parsed, err := FromCanonical(out)
			if err != nil {
				t.Logf("AddMonths produced invalid date %q", out)
				return false
			}
			if parsed.Day() > src.Day() {
				t.Logf("day grew: %q + %d months = %q", canonical, months, out)
				return false
			}
			return true
		},
		gen.IntRange(0, 30*365),
		gen.IntRange(0, 48),
	))

	properties.Property("AddMonths by zero is identity", prop.ForAll(
		func(days int) bool {
			base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
			canonical := ToCanonical(base.AddDate(0, 0, days))
			out, err := AddMonths(canonical, 0)
			return err == nil && out == canonical
		},
		gen.IntRange(0, 30*365),
	))

	properties.TestingRun(t)
}

// Property: the canonical encoding orders like the dates themselves, which
// the recurrence loop depends on when it compares strings.
func TestProperty_CanonicalOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("string order matches date order", prop.ForAll(
		func(daysA, daysB int) bool {
			base := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
			a := base.AddDate(0, 0, daysA)
			b := base.AddDate(0, 0, daysB)
			return a.Before(b) == (ToCanonical(a) < ToCanonical(b))
		},
		gen.IntRange(0, 50*365),
		gen.IntRange(0, 50*365),
	))

	properties.TestingRun(t)
}
