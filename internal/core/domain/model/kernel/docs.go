// Package kernel holds the value objects shared by the cart, menu and order models:
// UUID identifiers and Money amounts. Both reject their zero value on Validate.
package kernel
