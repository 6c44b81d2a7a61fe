package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error

	Products(ctx context.Context, args []string) error
	Product(ctx context.Context, args []string) error

	Cart(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Inc(ctx context.Context, args []string) error
	Dec(ctx context.Context, args []string) error
	Qty(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error

	Wishlist(ctx context.Context) error
	Wish(ctx context.Context, args []string) error
	Unwish(ctx context.Context, args []string) error

	Addresses(ctx context.Context) error
	AddressAdd(ctx context.Context) error
	AddressEdit(ctx context.Context, args []string) error
	AddressDelete(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Summary(ctx context.Context) error
	Pay(ctx context.Context) error
	Verify(ctx context.Context) error
}

const (
	helpGuest    = "Available commands: register, login, products [query], product <id>, exit"
	helpLoggedIn = "Available commands: me, products [query], product <id>, cart, add <product-id> [qty], inc <line-id>, dec <line-id>, " +
		"qty <line-id> <n>, remove <line-id>, wishlist, wish <product-id>, unwish <entry-id>, addresses, address-add, " +
		"address-edit <id>, address-delete <id>, select <address-id>, summary, pay, verify, logout, exit"
)

var errLoginRequired = errors.New("please login first")

// runREPL starts a read–eval–print loop for the storefront CLI.
//
// It reads a line from r, parses the first token as the command and the
// rest as arguments, and dispatches to methods on a. The loop exits on EOF,
// when ctx is done, or when the user types "exit" or "quit".
//
// Guests may register, login and browse products; every other command
// requires a session. Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("shop (%s) > ", statusFn()))
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpGuest)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "products":
		return a.Products(ctx, args)
	case "product":
		return a.Product(ctx, args)
	}

	if !a.isLoggedIn() {
		switch cmd {
		case "me", "logout", "cart", "add", "inc", "dec", "qty", "remove", "wishlist", "wish", "unwish",
			"addresses", "address-add", "address-edit", "address-delete", "select", "summary", "pay", "verify":
			return errLoginRequired
		}
	}

	switch cmd {
	case "me":
		return a.Me(ctx)
	case "logout":
		return a.Logout(ctx)
	case "cart":
		return a.Cart(ctx)
	case "add":
		return a.Add(ctx, args)
	case "inc":
		return a.Inc(ctx, args)
	case "dec":
		return a.Dec(ctx, args)
	case "qty":
		return a.Qty(ctx, args)
	case "remove":
		return a.Remove(ctx, args)
	case "wishlist":
		return a.Wishlist(ctx)
	case "wish":
		return a.Wish(ctx, args)
	case "unwish":
		return a.Unwish(ctx, args)
	case "addresses":
		return a.Addresses(ctx)
	case "address-add":
		return a.AddressAdd(ctx)
	case "address-edit":
		return a.AddressEdit(ctx, args)
	case "address-delete":
		return a.AddressDelete(ctx, args)
	case "select":
		return a.Select(ctx, args)
	case "summary":
		return a.Summary(ctx)
	case "pay":
		return a.Pay(ctx)
	case "verify":
		return a.Verify(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

// usage builds the error returned for malformed arguments.
func usage(format string) error {
	return fmt.Errorf("usage: %s", format)
}
