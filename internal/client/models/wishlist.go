package models

import "github.com/shopspring/decimal"

// WishlistEntry is a saved product. ProductID is empty when the product has
// since been deleted from the catalogue.
type WishlistEntry struct {
	ID        string
	Title     string
	ProductID string
	MRP       decimal.Decimal
	Discount  Discount
	Brand     string
	Image     string
	UserID    string
	CreatedAt string
	UpdatedAt string
}

// Dangling reports whether the referenced product no longer exists.
func (w WishlistEntry) Dangling() bool {
	return w.ProductID == ""
}

func (w WishlistEntry) DiscountedPrice() decimal.Decimal {
	return w.Discount.Apply(w.MRP)
}
