// Package money provides a fixed-point currency amount. Totals are
// accumulated in integer cents so summing many lines never drifts the
// way floating point would.
package money

import (
	"fmt"
	"math"
	"strconv"
)

// Cents is a currency amount in integer cents.
type Cents int64

// FromFloat converts a decimal currency amount (e.g. 10.99) to Cents,
// rounding to the nearest cent.
func FromFloat(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// Float returns the amount as a decimal number of currency units.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String renders the amount as "$12.34".
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// UnmarshalJSON accepts a decimal number of currency units, the format
// the catalog resource uses ("price": 10.00).
func (c *Cents) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q: %w", data, err)
	}
	*c = FromFloat(f)
	return nil
}

// MarshalJSON emits a decimal number of currency units, so the
// persisted representation round-trips with the catalog format.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(c.Float(), 'f', 2, 64)), nil
}
