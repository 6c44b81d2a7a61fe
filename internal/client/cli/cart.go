package cli

import (
	"context"
	"strconv"
)

func (a *App) Cart(ctx context.Context) error {
	if err := a.cart.Load(ctx); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *App) printCart() {
	lines := a.cart.State().Lines
	if len(lines) == 0 {
		a.println("Your cart is empty")
		return
	}
	for _, l := range lines {
		a.printf("%s  %s  %d x %s = %s\n", l.ID, l.Title, l.Quantity, money(l.UnitPrice()), money(l.LineTotal()))
	}
	a.printf("%d items, total %s\n", a.cart.ItemCount(), money(a.cart.Total()))
}

// Add puts a product into the cart; quantity defaults to 1.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("add <product-id> [qty]")
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return usage("add <product-id> [qty], qty >= 1")
		}
		qty = n
	}
	p, err := a.products.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.cart.AddItem(ctx, p, qty); err != nil {
		return err
	}
	a.printf("Added %d x %s to cart\n", qty, p.Title)
	return nil
}

func (a *App) Inc(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("inc <line-id>")
	}
	if err := a.ensureCart(ctx); err != nil {
		return err
	}
	if err := a.cart.Increase(ctx, args[0]); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *App) Dec(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("dec <line-id>")
	}
	if err := a.ensureCart(ctx); err != nil {
		return err
	}
	if err := a.cart.Decrease(ctx, args[0]); err != nil {
		return err
	}
	a.printCart()
	return nil
}

// Qty sets a line's quantity; 0 removes it.
func (a *App) Qty(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("qty <line-id> <n>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return usage("qty <line-id> <n>")
	}
	if err := a.cart.SetQuantity(ctx, args[0], n); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove <line-id>")
	}
	if err := a.cart.RemoveItem(ctx, args[0]); err != nil {
		return err
	}
	a.printCart()
	return nil
}

// ensureCart loads the cart once so inc/dec know current quantities.
func (a *App) ensureCart(ctx context.Context) error {
	if len(a.cart.State().Lines) > 0 {
		return nil
	}
	return a.cart.Load(ctx)
}
