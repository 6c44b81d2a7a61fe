// Package services contains the state holders of the storefront client:
// auth, product, cart, wishlist, checkout and payment.
//
// Each holder owns a state.Store with the snapshot its screen renders and
// exposes State and Subscribe. Operations report failures twice: as the
// returned error and as the single current Error message in the snapshot
// (a new error replaces the previous one).
//
// Mutating operations on the same entity id are serialized; operations on
// different ids run concurrently. Dependencies are passed to the
// constructors; there is no package-level state.
package services
