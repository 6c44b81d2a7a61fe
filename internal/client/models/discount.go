package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
)

// Discount is a percentage in [0, 100].
//
// The API sends discounts as strings ("10", "12.5", "", "N/A"). Decoding is
// lenient: anything non-numeric becomes 0 %. Use ParseDiscount where a bad
// value must be rejected instead.
type Discount struct {
	percent decimal.Decimal
}

// NewDiscount clamps p to [0, 100].
func NewDiscount(p decimal.Decimal) Discount {
	if p.IsNegative() {
		p = decimal.Zero
	}
	if p.GreaterThan(hundred) {
		p = hundred
	}
	return Discount{percent: p}
}

// ParseDiscount parses a string-encoded percentage. Out-of-range values are
// clamped; non-numeric input is an error.
func ParseDiscount(s string) (Discount, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return Discount{}, fmt.Errorf("empty discount")
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return Discount{}, fmt.Errorf("invalid discount %q: %w", s, err)
	}
	return NewDiscount(p), nil
}

// DiscountOrZero is ParseDiscount with the default-to-zero policy.
func DiscountOrZero(s string) Discount {
	d, err := ParseDiscount(s)
	if err != nil {
		return Discount{}
	}
	return d
}

// Percent returns the clamped percentage.
func (d Discount) Percent() decimal.Decimal {
	return d.percent
}

// Apply returns mrp reduced by the discount: mrp - mrp*percent/100.
// The result is never negative for a non-negative mrp.
func (d Discount) Apply(mrp decimal.Decimal) decimal.Decimal {
	return mrp.Sub(mrp.Mul(d.percent).Div(hundred))
}

func (d Discount) IsZero() bool {
	return d.percent.IsZero()
}

func (d Discount) String() string {
	return d.percent.String()
}

// MarshalJSON keeps the wire format: a string.
func (d Discount) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.percent.String())
}

// UnmarshalJSON accepts a string, a number or null.
func (d *Discount) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*d = DiscountOrZero(v)
	case float64:
		*d = NewDiscount(decimal.NewFromFloat(v))
	default:
		*d = Discount{}
	}
	return nil
}
