package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func priceLabel(mrp decimal.Decimal, d models.Discount) string {
	if d.IsZero() {
		return money(mrp)
	}
	return money(d.Apply(mrp)) + " (was " + money(mrp) + ", -" + d.String() + "%)"
}

// Products lists the catalogue. Any arguments form a search query matched
// against title, category and SKU.
func (a *App) Products(ctx context.Context, args []string) error {
	if err := a.products.Load(ctx); err != nil {
		return err
	}
	if len(a.products.State().Products) == 0 {
		a.println("No products available")
		return nil
	}

	query := strings.Join(args, " ")
	list := a.products.Search(query)
	if query != "" {
		if len(list) == 0 {
			a.println("No products found")
			return nil
		}
		a.printf("%d products found\n", len(list))
	}
	for _, p := range list {
		stock := ""
		if !p.InStock {
			stock = "  [out of stock]"
		}
		a.printf("%s  %s  %s  %s%s\n", p.ID, p.Title, p.BrandName(), priceLabel(p.MRP, p.Discount), stock)
	}
	return nil
}

func (a *App) Product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("product <id>")
	}
	p, err := a.products.Get(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("%s\nbrand: %s\ncategory: %s\nprice: %s\n", p.Title, p.BrandName(), p.Category.Name, priceLabel(p.MRP, p.Discount))
	if p.SKU != "" {
		a.printf("sku: %s\n", p.SKU)
	}
	if p.Description != "" {
		a.println(strings.TrimSpace(p.Description))
	}
	if img := p.FirstImage(); img != "" {
		a.printf("image: %s\n", img)
	}
	if a.isLoggedIn() && a.wishlist.Contains(p.ID) {
		a.println("(in your wishlist)")
	}
	return nil
}

func (a *App) Wishlist(ctx context.Context) error {
	if err := a.wishlist.Load(ctx); err != nil {
		return err
	}
	entries := a.wishlist.State().Entries
	if len(entries) == 0 {
		a.println("Your wishlist is empty")
		return nil
	}
	for _, e := range entries {
		note := ""
		if e.Dangling() {
			note = "  [no longer available]"
		}
		a.printf("%s  %s  %s%s\n", e.ID, e.Title, priceLabel(e.MRP, e.Discount), note)
	}
	return nil
}

// Wish saves a product to the wishlist.
func (a *App) Wish(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("wish <product-id>")
	}
	p, err := a.products.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.wishlist.Add(ctx, p); err != nil {
		return err
	}
	a.printf("Added %s to your wishlist\n", p.Title)
	return nil
}

func (a *App) Unwish(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("unwish <entry-id>")
	}
	if err := a.wishlist.Remove(ctx, args[0]); err != nil {
		return err
	}
	a.println("Removed from wishlist")
	return nil
}
