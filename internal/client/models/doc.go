// Package models defines the client-side domain types of the storefront:
// session, catalogue, cart, addresses, wishlist and payment records.
//
// Monetary amounts are decimal.Decimal in major currency units unless a
// field name says otherwise (AmountMinor).
package models
