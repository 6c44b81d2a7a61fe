// Package cli provides the interactive storefront command-line client.
//
// It wires configuration, the local session database, the REST API client,
// repositories and state holders, and runs a REPL on top of them. On start
// the stored session is restored (refreshing tokens if needed).
//
// Key features:
//   - Register / Login / Logout / Me
//   - Browse products, manage the cart and the wishlist
//   - Manage shipping addresses and pick one for checkout
//   - Pay for the cart through a terminal stand-in for the payment UI,
//     with verification retry
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
