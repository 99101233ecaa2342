package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor units. All totals are accumulated in
// Cents so repeated additions never drift.
type Cents int64

var hundred = decimal.NewFromInt(100)

// ParseCents converts a decimal amount such as "5.90" into Cents. Amounts
// must be non-negative and carry at most two decimal places.
func ParseCents(amount string) (Cents, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("catalog: invalid amount %q: %w", amount, err)
	}
	return CentsFromDecimal(d)
}

// CentsFromDecimal converts an exact decimal amount into Cents.
func CentsFromDecimal(d decimal.Decimal) (Cents, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("catalog: negative amount %s", d.String())
	}
	minor := d.Mul(hundred)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("catalog: amount %s has more than two decimal places", d.String())
	}
	return Cents(minor.IntPart()), nil
}

// Times returns the amount multiplied by a quantity.
func (c Cents) Times(quantity int) Cents {
	return c * Cents(quantity)
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String renders the amount with exactly two decimal places, e.g. "16.80".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}
