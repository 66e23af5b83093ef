package menu

import (
	"fmt"
	"sort"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
)

// Catalog is a read-only lookup of menu items by id.
type Catalog struct {
	items map[int]Item
}

func NewCatalog(items ...Item) (*Catalog, error) {
	c := &Catalog{items: make(map[int]Item, len(items))}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.items[it.ID()]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("menu", fmt.Errorf("duplicate item id %d", it.ID()))
		}
		c.items[it.ID()] = it
	}
	return c, nil
}

// Find returns ObjectNotFound for an unknown id.
func (c *Catalog) Find(id int) (Item, error) {
	it, ok := c.items[id]
	if !ok {
		return Item{}, errs.NewObjectNotFoundError("menuItemId", id)
	}
	return it, nil
}

// Items returns the catalog sorted by id.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// DefaultCatalog is the house biryani menu.
func DefaultCatalog() *Catalog {
	type row struct {
		id     int
		name   string
		price  int64
		params ItemParams
	}
	rows := []row{
		{1, "Hyderabadi Dum Biryani", 349, ItemParams{
			Description: "Fragrant basmati rice layered with marinated chicken, slow-cooked in dum style",
			Nutrition:   Nutrition{Calories: 450, Protein: 28, Carbs: 52, Fat: 12, Fiber: 2},
			SpiceLevel:  3, Rating: 4.8,
		}},
		{2, "Chicken Tikka Biryani", 299, ItemParams{
			Description: "Smoky tandoori chicken tikka pieces with aromatic saffron rice",
			Nutrition:   Nutrition{Calories: 420, Protein: 30, Carbs: 48, Fat: 10, Fiber: 1.5},
			SpiceLevel:  2, Rating: 4.6,
		}},
		{3, "Mutton Dum Biryani", 399, ItemParams{
			Description: "Tender mutton pieces cooked with long grain rice and whole spices",
			Nutrition:   Nutrition{Calories: 520, Protein: 32, Carbs: 50, Fat: 18, Fiber: 2},
			SpiceLevel:  4, Rating: 4.9,
		}},
		{4, "Paneer Biryani", 249, ItemParams{
			Description: "Cottage cheese cubes in rich gravy layered with fragrant rice",
			Nutrition:   Nutrition{Calories: 420, Protein: 18, Carbs: 54, Fat: 14, Fiber: 3},
			Dietary:     Dietary{Vegetarian: true},
			SpiceLevel:  2, Rating: 4.5,
		}},
		{5, "Prawn Biryani", 449, ItemParams{
			Description: "Coastal style prawns with coconut-infused rice and curry leaves",
			Nutrition:   Nutrition{Calories: 480, Protein: 35, Carbs: 46, Fat: 15, Fiber: 2},
			SpiceLevel:  3, Rating: 4.7,
		}},
		{6, "Vegetable Biryani", 199, ItemParams{
			Description: "Seasonal vegetables cooked with basmati rice and mild spices",
			Nutrition:   Nutrition{Calories: 380, Protein: 12, Carbs: 56, Fat: 10, Fiber: 5},
			Dietary:     Dietary{Vegetarian: true, Vegan: true},
			SpiceLevel:  1, Rating: 4.3,
		}},
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		price, err := kernel.MoneyFromInt(r.price)
		if err != nil {
			panic(err)
		}
		it, err := NewItem(r.id, r.name, price, r.params)
		if err != nil {
			panic(err)
		}
		items = append(items, it)
	}
	c, err := NewCatalog(items...)
	if err != nil {
		panic(err)
	}
	return c
}
