package cart

import (
	"errors"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/menu"
)

var ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart")

// Line is one distinct menu item with its quantity. Quantity is always >= 1.
type Line struct {
	Item     menu.Item
	Quantity int
}

func (l Line) Subtotal() kernel.Money {
	return l.Item.Price().Times(l.Quantity)
}

// Cart is an explicitly owned, non-persistent collection of lines. It is not safe for
// concurrent use; the session store serialises access.
type Cart struct {
	id            kernel.UUID
	lines         []Line
	isConstructed bool
}

func NewCart(id kernel.UUID) (*Cart, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &Cart{id: id, isConstructed: true}, nil
}

func (c *Cart) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCartIsNotConstructed
	}
	return nil
}

func (c *Cart) ID() kernel.UUID {
	return c.id
}

// AddItem increments the quantity of an existing line or appends a new line with quantity 1.
func (c *Cart) AddItem(item menu.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if i := c.indexOf(item.ID()); i >= 0 {
		c.lines[i].Quantity++
		return nil
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1})
	return nil
}

// RemoveItem drops the line. Removing an absent item is a no-op.
func (c *Cart) RemoveItem(itemID int) {
	if i := c.indexOf(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// SetQuantity sets an existing line's quantity; qty <= 0 removes the line.
// Unknown item ids are ignored.
func (c *Cart) SetQuantity(itemID int, qty int) {
	if qty <= 0 {
		c.RemoveItem(itemID)
		return
	}
	if i := c.indexOf(itemID); i >= 0 {
		c.lines[i].Quantity = qty
	}
}

func (c *Cart) TotalAmount() kernel.Money {
	total := kernel.ZeroMoney()
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) TotalCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) indexOf(itemID int) int {
	for i, l := range c.lines {
		if l.Item.ID() == itemID {
			return i
		}
	}
	return -1
}
