package models

import "github.com/shopspring/decimal"

// CartLine is one cart entry. Quantity is at least 1; a line whose quantity
// would reach 0 is deleted instead.
type CartLine struct {
	ID           string
	Title        string
	ProductID    string
	ProductImage string
	MRP          decimal.Decimal
	Discount     Discount
	Brand        string
	Quantity     int
	UserID       string
}

// UnitPrice is the discounted price of one unit.
func (l CartLine) UnitPrice() decimal.Decimal {
	return l.Discount.Apply(l.MRP)
}

// LineTotal is UnitPrice × Quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// FindLine returns the line with the given id.
func FindLine(lines []CartLine, id string) (CartLine, bool) {
	for _, l := range lines {
		if l.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// CartItemCount sums quantities.
func CartItemCount(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
