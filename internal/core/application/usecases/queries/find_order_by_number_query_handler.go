package queries

import (
	"context"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
)

type FindOrderByNumberQueryHandler struct {
	reader ports.OrderReader
}

func NewFindOrderByNumberQueryHandler(reader ports.OrderReader) FindOrderByNumberQueryHandler {
	return FindOrderByNumberQueryHandler{reader: reader}
}

// Handle returns (nil, nil) when no order carries the number.
func (h FindOrderByNumberQueryHandler) Handle(
	ctx context.Context,
	query FindOrderByNumberQuery,
) (*order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.reader.FindByNumber(ctx, query.Number())
}
