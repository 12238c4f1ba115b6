package moneymanager

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the account currency when none is configured.
const DefaultCurrency = "INR"

// Money is an amount in a currency, used for display only. Computations are
// made on decimal.Decimal values.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns the money value for an amount in a currency.
func M(value decimal.Decimal, currency string) Money {
	return Money{value: value, cur: currency}
}

// Currency returns the money's currency code.
func (m Money) Currency() string { return m.cur }

// Value returns the amount in major unit.
func (m Money) Value() decimal.Decimal { return m.value }

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// String returns the amount formatted with the currency symbol and fraction
// digits (e.g. "₹1,000.00"). Unknown currencies and amounts too large for the
// formatter fall back to a plain two digits representation followed by the code.
func (m Money) String() string {
	cur := money.GetCurrency(m.cur)
	if cur == nil {
		return plain(m.value, m.cur)
	}
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return plain(m.value, m.cur)
	}
	return cur.Formatter().Format(minor.IntPart())
}

func plain(v decimal.Decimal, code string) string {
	s := v.StringFixed(2)
	if code == "" {
		return s
	}
	return s + " " + code
}

// SignedString returns the string representation with an explicit sign, "-" for zero.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// FormatMoney formats amount in currency for display.
func FormatMoney(amount decimal.Decimal, currency string) string {
	return M(amount, currency).String()
}
