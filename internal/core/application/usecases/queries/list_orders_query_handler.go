package queries

import (
	"context"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
)

// ListOrdersQueryHandler feeds the operator dashboard: every order, newest first.
type ListOrdersQueryHandler struct {
	reader ports.OrderReader
}

func NewListOrdersQueryHandler(reader ports.OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context) ([]order.Snapshot, error) {
	orders, err := h.reader.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []order.Snapshot{}
	}
	return orders, nil
}
