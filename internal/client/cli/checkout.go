package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/storefront/internal/client/gateway"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/common"
)

func (a *App) Addresses(ctx context.Context) error {
	if err := a.checkout.Load(ctx); err != nil {
		return err
	}
	a.printAddresses()
	return nil
}

func (a *App) printAddresses() {
	st := a.checkout.State()
	if len(st.Addresses) == 0 {
		a.println("No saved addresses. Use address-add to create one.")
		return
	}
	for _, addr := range st.Addresses {
		mark := " "
		if st.Selected != nil && st.Selected.ID == addr.ID {
			mark = "*"
		}
		a.printf("%s %s  %s\n", mark, addr.ID, addr.Label())
	}
}

// addressFields lists the form prompts in order.
var addressFields = []struct {
	prompt string
	field  func(*models.Address) *string
}{
	{"Full name", func(a *models.Address) *string { return &a.FullName }},
	{"Email", func(a *models.Address) *string { return &a.Email }},
	{"Confirm email", func(a *models.Address) *string { return &a.ConfirmEmail }},
	{"Address line 1", func(a *models.Address) *string { return &a.Line1 }},
	{"Address line 2 (optional)", func(a *models.Address) *string { return &a.Line2 }},
	{"City", func(a *models.Address) *string { return &a.City }},
	{"State", func(a *models.Address) *string { return &a.State }},
	{"Postal code", func(a *models.Address) *string { return &a.PostalCode }},
	{"Country", func(a *models.Address) *string { return &a.Country }},
	{"Phone number", func(a *models.Address) *string { return &a.Phone }},
}

// readAddress fills the form starting from current; empty answers keep
// the current value.
func (a *App) readAddress(current models.Address) (models.Address, error) {
	addr := current
	for _, f := range addressFields {
		p := f.field(&addr)
		v, err := GetTextOrDefault(a.reader, f.prompt, *p, a.out)
		if err != nil {
			return models.Address{}, err
		}
		*p = v
	}
	return addr, nil
}

func (a *App) AddressAdd(ctx context.Context) error {
	if err := a.loadCheckoutOnce(ctx); err != nil {
		return err
	}
	addr, err := a.readAddress(models.Address{})
	if err != nil {
		return err
	}
	created, err := a.checkout.SaveAddress(ctx, addr)
	if err != nil {
		return err
	}
	a.printf("Saved address %s and selected it\n", created.ID)
	return nil
}

func (a *App) AddressEdit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("address-edit <id>")
	}
	if err := a.loadCheckoutOnce(ctx); err != nil {
		return err
	}
	current := models.Address{}
	st := a.checkout.State()
	if i := models.FindAddress(st.Addresses, args[0]); i >= 0 {
		current = st.Addresses[i]
		current.ConfirmEmail = current.Email
	}
	addr, err := a.readAddress(current)
	if err != nil {
		return err
	}
	if _, err := a.checkout.UpdateAddress(ctx, args[0], addr); err != nil {
		return err
	}
	a.println("Address updated")
	return nil
}

func (a *App) AddressDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("address-delete <id>")
	}
	if err := a.checkout.DeleteAddress(ctx, args[0]); err != nil {
		return err
	}
	a.println("Address deleted")
	a.printAddresses()
	return nil
}

func (a *App) Select(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("select <address-id>")
	}
	if err := a.loadCheckoutOnce(ctx); err != nil {
		return err
	}
	if err := a.checkout.SelectAddress(args[0]); err != nil {
		return err
	}
	a.printAddresses()
	return nil
}

// Summary reloads checkout and prints the priced order.
func (a *App) Summary(ctx context.Context) error {
	if err := a.checkout.Load(ctx); err != nil {
		return err
	}
	a.printSummary()
	return nil
}

func (a *App) printSummary() {
	st := a.checkout.State()
	s := a.checkout.Summary()
	for _, l := range st.Lines {
		a.printf("  %s  %d x %s = %s\n", l.Title, l.Quantity, money(l.UnitPrice()), money(l.LineTotal()))
	}
	a.printf("Items:    %d\n", s.Items)
	a.printf("Subtotal: %s\n", money(s.Subtotal))
	if s.Shipping.IsZero() {
		a.println("Shipping: FREE")
	} else {
		a.printf("Shipping: %s\n", money(s.Shipping))
	}
	a.printf("Tax:      %s\n", money(s.Tax))
	a.printf("Total:    %s\n", money(s.Total))
	if st.Selected != nil {
		a.printf("Ship to:  %s\n", st.Selected.Label())
	} else {
		a.println("Ship to:  (no address selected)")
	}
}

// Pay places the order and runs the payment flow. A draft that was placed
// earlier but not paid is reused, so the same gateway order is reopened.
// If the payment order cannot be created the placement is undone.
func (a *App) Pay(ctx context.Context) error {
	if a.payment.State().AwaitingVerification() {
		a.println("A previous payment has not been verified yet. Type 'verify' to retry.")
		return common.Validation("Verify the pending payment before paying again")
	}
	if err := a.checkout.Load(ctx); err != nil {
		return err
	}
	a.printSummary()

	draft, ok := a.unpaidDraft()
	if !ok {
		var err error
		if draft, err = a.checkout.PlaceOrder(ctx); err != nil {
			return err
		}
	}

	res, err := a.payment.Checkout(ctx, a.gateway, draft)
	if err != nil {
		st := a.payment.State()
		var f *gateway.Failure
		switch {
		case st.Order.Phase == services.PhaseError:
			a.checkout.CancelOrder()
			return err
		case errors.As(err, &f):
			a.println(f.Message())
			if f.Retryable() {
				a.println("Type 'pay' to try again.")
			}
			return nil
		case st.Verification.Phase == services.PhaseError:
			a.println("Payment was received but could not be verified. Type 'verify' to retry.")
			return err
		default:
			return err
		}
	}

	a.println(res.Message)
	a.reloadCart(ctx)
	return nil
}

// unpaidDraft returns the placed order when its gateway order exists and
// has not been verified yet.
func (a *App) unpaidDraft() (models.OrderDraft, bool) {
	cs := a.checkout.State()
	ps := a.payment.State()
	if !cs.OrderPlaced || cs.Order == nil || ps.Paid() || ps.Order.Order == nil {
		return models.OrderDraft{}, false
	}
	if ps.Order.Order.LocalOrderID != cs.Order.LocalOrderID {
		return models.OrderDraft{}, false
	}
	if !cs.Order.Amount().Equal(a.checkout.Total()) {
		a.checkout.CancelOrder()
		return models.OrderDraft{}, false
	}
	return *cs.Order, true
}

// Verify resends the last payment result for verification.
func (a *App) Verify(ctx context.Context) error {
	res, err := a.payment.RetryVerification(ctx)
	if err != nil {
		return err
	}
	a.println(res.Message)
	a.reloadCart(ctx)
	return nil
}

// reloadCart refreshes the cart as a side effect of another command, so a
// failure is logged rather than returned.
func (a *App) reloadCart(ctx context.Context) {
	if err := a.cart.Load(ctx); err != nil {
		a.log.Warn(ctx, "could not reload cart", "error", err)
	}
}

// loadCheckoutOnce loads addresses unless they are already cached.
func (a *App) loadCheckoutOnce(ctx context.Context) error {
	if len(a.checkout.State().Addresses) > 0 {
		return nil
	}
	return a.checkout.Load(ctx)
}
