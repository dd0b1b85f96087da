package validate

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"invest-appointment/internal/models"
)

// Property: the percentage-sum verdict is restored after adding and then
// removing the same allocation (idempotence under add+remove).
func TestProperty_PercentSumIdempotentUnderAddRemove(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	percListGen := gen.SliceOfN(4, gen.IntRange(5, 60))

	properties.Property("add then remove restores verdict", prop.ForAll(
		func(percs []int, extra int) bool {
			buys := make([]models.BuyAllocation, len(percs))
			for i, p := range percs {
				buys[i] = models.BuyAllocation{InvestCode: fmt.Sprintf("INV%03d", i), Percent: p}
			}

			before := BuyPercentagesSumTo100(buys) == nil

			buys = append(buys, models.BuyAllocation{InvestCode: "EXTRA", Percent: extra})
			buys = buys[:len(buys)-1]

			after := BuyPercentagesSumTo100(buys) == nil
			return before == after
		},
		percListGen,
		gen.IntRange(5, 100),
	))

	properties.TestingRun(t)
}

// Property: any sell list with at least one ALL entry passes the minimum
// floor check regardless of the AMOUNT-mode sum or the configured floor.
func TestProperty_SellAllExemptionAlwaysPasses(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ALL entry waives the floor", prop.ForAll(
		func(amounts []int, minimum int, allPos int) bool {
			sells := make([]models.SellAllocation, len(amounts))
			for i, a := range amounts {
				sells[i] = models.SellAllocation{
					InvestCode: fmt.Sprintf("INV%03d", i),
					Mode:       models.SellByAmount,
					Amount:     decimal.NewFromInt(int64(a)),
				}
			}
			// Force one entry to ALL mode.
			pos := allPos % len(sells)
			sells[pos].Mode = models.SellAll
			sells[pos].Amount = decimal.Zero

			exempt := SellAllExempt(sells)
			if !exempt {
				return false
			}
			return WithdrawalMeetsMinimum(sells, decimal.NewFromInt(int64(minimum)), exempt) == nil
		},
		gen.SliceOfN(3, gen.IntRange(1, 100)),
		gen.IntRange(1, 1_000_000),
		gen.IntRange(0, 2),
	))

	properties.Property("without exemption the floor binds exactly", prop.ForAll(
		func(amounts []int, minimum int) bool {
			sells := make([]models.SellAllocation, len(amounts))
			sum := 0
			for i, a := range amounts {
				sum += a
				sells[i] = models.SellAllocation{
					InvestCode: fmt.Sprintf("INV%03d", i),
					Mode:       models.SellByAmount,
					Amount:     decimal.NewFromInt(int64(a)),
				}
			}
			err := WithdrawalMeetsMinimum(sells, decimal.NewFromInt(int64(minimum)), false)
			return (err == nil) == (sum >= minimum)
		},
		gen.SliceOfN(3, gen.IntRange(1, 1000)),
		gen.IntRange(1, 5000),
	))

	properties.TestingRun(t)
}

// Property: duplicate detection is symmetric — if entry i duplicates entry j,
// checking either index fails.
func TestProperty_DuplicateDetectionSymmetry(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("duplicate fails from both indexes", prop.ForAll(
		func(codes []int, dupAt int) bool {
			buys := make([]models.BuyAllocation, len(codes))
			for i, c := range codes {
				buys[i] = models.BuyAllocation{InvestCode: fmt.Sprintf("INV%03d", c), Percent: 10}
			}
			j := dupAt % len(buys)
			buys = append(buys, models.BuyAllocation{InvestCode: buys[j].InvestCode, Percent: 10})

			last := len(buys) - 1
			return NoDuplicateBuyCode(buys, last) != nil && NoDuplicateBuyCode(buys, j) != nil
		},
		gen.SliceOfN(4, gen.IntRange(0, 999)),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}
