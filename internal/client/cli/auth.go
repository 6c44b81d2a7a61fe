package cli

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account.
// On success the new session is persisted and the user is signed in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, name, email, string(password)); err != nil {
		return err
	}
	a.println(a.auth.State().Message)
	return nil
}

// Login prompts for credentials and signs in. The cart is loaded right
// after so the prompt can show its size.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		return err
	}
	a.println(a.auth.State().Message)
	a.reloadCart(ctx)
	return nil
}

// Logout ends the session. The local session is removed even when the
// server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.println(a.auth.State().Message)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.auth.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	verified := "no"
	if u.IsEmailVerified {
		verified = "yes"
	}
	a.printf("%s <%s>\nid: %s\nemail verified: %s\n", u.Name, u.Email, u.ID, verified)
	return nil
}
