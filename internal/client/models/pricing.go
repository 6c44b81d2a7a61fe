package models

import "github.com/shopspring/decimal"

// Pricing holds the checkout pricing rules. Amounts are in abstract
// currency units.
type Pricing struct {
	// Shipping is free when the subtotal is strictly greater than this.
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPricing: free shipping above 50, otherwise 5.99; 8 % tax.
var DefaultPricing = Pricing{
	FreeShippingThreshold: decimal.NewFromInt(50),
	ShippingFee:           decimal.RequireFromString("5.99"),
	TaxRate:               decimal.RequireFromString("0.08"),
}

// Summary is a priced cart.
type Summary struct {
	Items    int
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal is Σ discounted unit price × quantity.
func (p Pricing) Subtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

func (p Pricing) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFee
}

func (p Pricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate)
}

// Summarize prices lines in one pass.
func (p Pricing) Summarize(lines []CartLine) Summary {
	subtotal := p.Subtotal(lines)
	shipping := p.Shipping(subtotal)
	tax := p.Tax(subtotal)
	return Summary{
		Items:    CartItemCount(lines),
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
