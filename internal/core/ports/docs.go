// Package ports declares the contracts between the application core and its adapters:
// the order store (write and read sides), the unit of work, the change feed, cart
// sessions, the menu and notification delivery.
package ports
