// Package validate holds the pure allocation rules the wizard screens
// enforce. Every function is side-effect free: it inspects the in-progress
// lists and returns nil or a ValidationError carrying the user-facing reason.
package validate

import (
	"fmt"
	"unicode"

	"github.com/shopspring/decimal"

	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/models"
)

// DefaultMinBuyPercent is the smallest allocation a single buy entry may
// carry when no minimum is configured.
const DefaultMinBuyPercent = 5

// Currencies without a minor monetary unit. Amounts in these currencies must
// be whole numbers.
var noMinorUnit = map[string]bool{
	"TWD": true,
}

// NoDuplicateSellCode checks that the sell allocation at index (zero-based)
// does not share its investment code with any other sell entry.
func NoDuplicateSellCode(sells []models.SellAllocation, index int) error {
	code := sells[index].InvestCode
	for i, s := range sells {
		if i != index && s.InvestCode == code {
			return apperr.NewValidationError("invest_code", code, "duplicate investment in sell list")
		}
	}
	return nil
}

// NoDuplicateBuyCode checks that the buy allocation at index (zero-based)
// does not share its investment code with any other buy entry.
func NoDuplicateBuyCode(buys []models.BuyAllocation, index int) error {
	code := buys[index].InvestCode
	for i, b := range buys {
		if i != index && b.InvestCode == code {
			return apperr.NewValidationError("invest_code", code, "duplicate investment in buy list")
		}
	}
	return nil
}

// NotInSellList checks cross-list exclusivity: the buy allocation at index
// must not name an investment that is being sold in the same appointment.
func NotInSellList(buys []models.BuyAllocation, sells []models.SellAllocation, index int) error {
	code := buys[index].InvestCode
	for _, s := range sells {
		if s.InvestCode == code {
			return apperr.NewValidationError("invest_code", code, "investment is already in the sell list")
		}
	}
	return nil
}

// BuyPercentagesSumTo100 checks that the buy percentages sum to exactly 100.
// An empty list fails: by the time this rule runs the buy step is being
// finalized and a conversion with nothing to buy is not an appointment.
func BuyPercentagesSumTo100(buys []models.BuyAllocation) error {
	total := 0
	for _, b := range buys {
		total += b.Percent
	}
	if total != 100 {
		return apperr.NewValidationError("percent_total", total, "buy percentages must sum to exactly 100")
	}
	return nil
}

// BuyPercentInRange checks a single buy percentage: whole numbers are
// enforced by the int type; the value must be within [minimum, 100]. A
// non-positive minimum falls back to DefaultMinBuyPercent.
func BuyPercentInRange(percent, minimum int) error {
	if minimum <= 0 {
		minimum = DefaultMinBuyPercent
	}
	if percent < minimum || percent > 100 {
		return apperr.NewValidationError("percent", percent,
			fmt.Sprintf("percentage must be between %d and 100", minimum))
	}
	return nil
}

// SellAllExempt reports whether the sell list contains at least one ALL-mode
// entry. A single sell-all liquidates the full position, so the minimum
// withdrawal floor no longer applies to the appointment.
func SellAllExempt(sells []models.SellAllocation) bool {
	for _, s := range sells {
		if s.Mode == models.SellAll {
			return true
		}
	}
	return false
}

// WithdrawalMeetsMinimum checks the plan's minimum partial-withdrawal floor
// against the sum of AMOUNT-mode entries. Exempt appointments always pass.
func WithdrawalMeetsMinimum(sells []models.SellAllocation, minimum decimal.Decimal, exempt bool) error {
	if exempt {
		return nil
	}
	sum := decimal.Zero
	for _, s := range sells {
		if s.Mode == models.SellByAmount {
			sum = sum.Add(s.Amount)
		}
	}
	if sum.LessThan(minimum) {
		return apperr.NewValidationError("sell_amount_total", sum.String(),
			"total withdrawal amount is below the plan minimum "+minimum.String())
	}
	return nil
}

// SellAmount checks a single AMOUNT-mode sell amount: positive, and a whole
// number when the currency has no minor unit.
func SellAmount(amount decimal.Decimal, currency string) error {
	if !amount.IsPositive() {
		return apperr.NewValidationError("amount", amount.String(), "amount must be greater than zero")
	}
	return AmountWholeForCurrency(amount, currency)
}

// AmountWholeForCurrency rejects fractional amounts for currencies without a
// minor monetary unit.
func AmountWholeForCurrency(amount decimal.Decimal, currency string) error {
	if noMinorUnit[currency] && !amount.IsInteger() {
		return apperr.NewValidationError("amount", amount.String(),
			currency+" amounts must be whole numbers")
	}
	return nil
}

// EnglishText rejects non-ASCII characters. The English payee and bank name
// fields must stay machine-printable for foreign remittance.
func EnglishText(field, text string) error {
	for _, r := range text {
		if r > unicode.MaxASCII {
			return apperr.NewValidationError(field, text,
				"field must contain only ASCII characters")
		}
	}
	return nil
}
