package orderrepo

import (
	"context"
	"errors"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertSavepoint = "order_insert"

// GormOrderRepository implements ports.OrderRepository. It expects db to be a
// transaction; Add uses a savepoint so a duplicate key does not abort the caller's
// transaction.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate *order.Order)
	LockForPublish(id kernel.UUID)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order row and then its item rows. A unique violation is reported as
// ports.ErrOrderAlreadyExists when the id is taken and ports.ErrOrderNumberTaken otherwise.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	dto := fromDomain(aggregate)
	items := dto.Items

	if err := db.SavePoint(insertSavepoint).Error; err != nil {
		return err
	}

	err := db.Omit(clause.Associations).Create(&dto).Error
	if err == nil {
		err = db.Create(&items).Error
	}
	if err != nil {
		if rbErr := db.RollbackTo(insertSavepoint).Error; rbErr != nil {
			return errors.Join(err, rbErr)
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		var count int64
		if cntErr := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; cntErr != nil {
			return cntErr
		}
		if count > 0 {
			return ports.ErrOrderAlreadyExists
		}
		return ports.ErrOrderNumberTaken
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the mutable columns only: status, updated_at and version.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().Value()).
		Updates(map[string]any{
			"status":     aggregate.Status().String(),
			"updated_at": aggregate.UpdatedAt(),
			"version":    aggregate.Version(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.load(ctx, id, false)
}

// GetForUpdate takes SELECT ... FOR UPDATE on the order row. The unit's publish lock on
// the id is taken first, so in-process writers always lock in the same order.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	r.tracker.LockForPublish(id)
	return r.load(ctx, id, true)
}

func (r *GormOrderRepository) load(ctx context.Context, id kernel.UUID, lock bool) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	q := db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := q.First(&dto, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id.String())
		}
		return nil, err
	}
	if err := db.Where("order_id = ?", dto.ID).Order("position").Find(&dto.Items).Error; err != nil {
		return nil, err
	}

	return toDomain(dto)
}
