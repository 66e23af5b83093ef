package queries

import (
	"foodorders/internal/core/domain/model/menu"
	"foodorders/internal/core/ports"
)

type GetMenuQueryHandler struct {
	catalog ports.MenuCatalog
}

func NewGetMenuQueryHandler(catalog ports.MenuCatalog) GetMenuQueryHandler {
	return GetMenuQueryHandler{catalog: catalog}
}

func (h GetMenuQueryHandler) Handle() []menu.Item {
	return h.catalog.Items()
}
