// Package menu models the storefront catalog: immutable items with a price, nutrition facts
// and dietary flags. The catalog is read-only at runtime.
package menu
