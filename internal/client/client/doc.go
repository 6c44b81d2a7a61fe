// Package client contains the storefront client's outward-facing building
// blocks.
//
// # Overview
//
//  1. Narrow per-domain API contracts (AuthAPI, ProductAPI, CartAPI,
//     AddressAPI, WishlistAPI, PaymentAPI) and their REST implementation,
//     HTTPClient. HTTPClient injects the bearer token from a TokenStore,
//     refreshes it once on 401 (concurrent 401s share a single refresh) and
//     retries the request once.
//  2. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database migrated with embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable (timeouts wrap ErrTimeout, which
// itself matches ErrUnavailable). Non-2xx responses are *StatusError; a 401
// also matches ErrUnauthorized. Undecodable bodies wrap ErrBadResponse.
//
// # Wire format
//
// Ids arrive as "id", "_id" or {"$oid": "..."}; discounts as strings; cart
// quantities as "count". Mapping to models happens in this package only.
package client
