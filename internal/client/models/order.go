package models

import "github.com/shopspring/decimal"

// OrderDraft is produced when checkout places an order. LocalOrderID links
// it to the payment order created afterwards.
type OrderDraft struct {
	LocalOrderID string
	Address      Address
	Lines        []CartLine
	Summary      Summary
}

// Amount is the total to charge.
func (o OrderDraft) Amount() decimal.Decimal {
	return o.Summary.Total
}
