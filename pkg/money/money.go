// Package money holds the decimal arithmetic shared by pricing and settlement.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Whole rounds to the nearest whole unit, halves away from zero.
func Whole(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// Cents rounds to two decimal places.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns pct percent of d, unrounded.
func Percent(d, pct decimal.Decimal) decimal.Decimal {
	return d.Mul(pct).Div(hundred)
}

// Discount returns d reduced by pct percent, unrounded.
func Discount(d, pct decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred.Sub(pct)).Div(hundred)
}

// FromFloat is for configuration values; amounts from storage are
// already decimals.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Sum adds every amount.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(amounts[0], amounts[1:]...)
}
