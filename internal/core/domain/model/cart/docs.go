// Package cart implements the customer's pre-checkout cart: a set of menu lines unique by
// item id, with derived total amount and item count. Carts are never persisted.
package cart
