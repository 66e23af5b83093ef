package orderrepo

import (
	"context"
	"errors"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderReader implements ports.OrderReader outside any transaction.
type GormOrderReader struct {
	db *gorm.DB
}

func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

func (r *GormOrderReader) Get(ctx context.Context, id kernel.UUID) (order.Snapshot, error) {
	if err := id.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&dto, "id = ?", id.Value()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Snapshot{}, errs.NewObjectNotFoundError("orderId", id.String())
		}
		return order.Snapshot{}, err
	}
	return toSnapshot(dto)
}

// FindByNumber is an exact, case-sensitive match. A miss is (nil, nil).
func (r *GormOrderReader) FindByNumber(ctx context.Context, number string) (*order.Snapshot, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("order_number = ?", number).
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}

	snap, err := toSnapshot(dtos[0])
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListAll scans the whole table, newest first.
func (r *GormOrderReader) ListAll(ctx context.Context) ([]order.Snapshot, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Order("created_at DESC").
		Order("order_number DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]order.Snapshot, 0, len(dtos))
	for _, dto := range dtos {
		snap, snapErr := toSnapshot(dto)
		if snapErr != nil {
			return nil, snapErr
		}
		out = append(out, snap)
	}
	return out, nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
