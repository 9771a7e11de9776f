// Package decimal rounds dollar amounts the way the tax return and the
// payment processor expect: to the cent, half away from zero.
package decimal

import (
	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// Money is a US dollar amount.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal wraps d without rounding it.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// FromCents converts a whole number of cents, as returned by Stripe.
func FromCents(cents int64) Money {
	return Money{decimal.New(cents, -2)}
}

// Round rounds to cents, half away from zero.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Prorate returns the share of an annual amount covering months out of
// twelve, rounded once at the end. Months outside 0..12 are clamped.
func (m Money) Prorate(months int) Money {
	switch {
	case months <= 0:
		return Money{decimal.Zero}
	case months >= 12:
		return m.Round()
	}
	return Money{m.Decimal.Mul(decimal.NewFromInt(int64(months))).Div(monthsInYear)}.Round()
}

// Percent returns pct percent of the amount, rounded to cents.
func (m Money) Percent(pct decimal.Decimal) Money {
	return Money{m.Decimal.Mul(pct).Div(hundred)}.Round()
}

// Cents returns the amount in whole cents.
func (m Money) Cents() int64 {
	return m.Decimal.Mul(hundred).Round(0).IntPart()
}

// String prints the amount with two decimals and no currency sign.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format prints the amount as dollars, with the sign ahead of the symbol.
func (m Money) Format() string {
	if m.IsNegative() {
		return "-$" + m.Decimal.Neg().StringFixed(2)
	}
	return "$" + m.String()
}
