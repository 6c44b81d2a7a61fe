package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   string
	Name string
}

type Brand struct {
	ID   string
	Name string
}

type Image struct {
	ID  string
	Src string
}

type Variant struct {
	ID       string
	SKU      string
	Quantity int
	Price    decimal.Decimal
	Images   []string
}

// Product is a catalogue item.
type Product struct {
	ID          string
	Title       string
	MRP         decimal.Decimal
	Discount    Discount
	Category    Category
	Brand       *Brand
	InStock     bool
	SKU         string
	Description string
	Images      []Image
	Variants    []Variant
	CreatedOn   string
}

// DiscountedPrice is MRP with the discount applied.
func (p Product) DiscountedPrice() decimal.Decimal {
	return p.Discount.Apply(p.MRP)
}

// BrandName returns the brand name or "N/A".
func (p Product) BrandName() string {
	if p.Brand == nil || p.Brand.Name == "" {
		return "N/A"
	}
	return p.Brand.Name
}

// ImageURLs lists non-empty image sources in order.
func (p Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.Src != "" {
			urls = append(urls, img.Src)
		}
	}
	return urls
}

// FirstImage returns the first image URL or "".
func (p Product) FirstImage() string {
	if urls := p.ImageURLs(); len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// Matches reports whether query occurs in the title, category name or SKU,
// ignoring case. A blank query matches everything.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{p.Title, p.Category.Name, p.SKU} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterProducts returns the products matching query, in their original
// order.
func FilterProducts(products []Product, query string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}
