package ports

import "foodorders/internal/core/domain/model/menu"

// MenuCatalog is the storefront collaborator. *menu.Catalog satisfies it.
type MenuCatalog interface {
	Items() []menu.Item
	Find(id int) (menu.Item, error)
}
