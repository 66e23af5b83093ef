// Package orderrepo maps the order aggregate to the orders and order_items tables.
package orderrepo

import (
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is one row of the orders table. Timestamps are written by the domain, never by
// GORM, so the auto time tracking is switched off.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderNumber     string          `gorm:"column:order_number;size:12;not null;uniqueIndex:orders_order_number_key"`
	CustomerName    string          `gorm:"not null"`
	CustomerEmail   string          `gorm:"not null"`
	CustomerPhone   string          `gorm:"not null"`
	DeliveryAddress string          `gorm:"not null"`
	Notes           string          `gorm:"not null;default:''"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentMethod   string          `gorm:"size:16;not null"`
	Status          string          `gorm:"size:32;not null"`
	CreatedAt       time.Time       `gorm:"autoCreateTime:false;not null"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime:false;not null"`
	Version         int64           `gorm:"not null"`
	Items           []OrderItemDTO  `gorm:"foreignKey:OrderID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one row of order_items. Position keeps the checkout order of lines.
type OrderItemDTO struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position int             `gorm:"not null"`
	ItemName string          `gorm:"not null"`
	Quantity int             `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	customer := o.Customer()
	lines := o.Lines()
	items := make([]OrderItemDTO, 0, len(lines))
	for i, l := range lines {
		items = append(items, OrderItemDTO{
			ID:       l.ID().Value(),
			OrderID:  o.ID().Value(),
			Position: i,
			ItemName: l.ItemName(),
			Quantity: l.Quantity(),
			Price:    l.UnitPrice().Decimal(),
		})
	}

	return OrderDTO{
		ID:              o.ID().Value(),
		OrderNumber:     o.Number().String(),
		CustomerName:    customer.Name(),
		CustomerEmail:   customer.Email(),
		CustomerPhone:   customer.Phone(),
		DeliveryAddress: customer.Address(),
		Notes:           o.Notes(),
		TotalAmount:     o.Total().Decimal(),
		PaymentMethod:   o.PaymentMethod().String(),
		Status:          o.Status().String(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		Version:         o.Version(),
		Items:           items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	number, err := order.ParseNumber(dto.OrderNumber)
	if err != nil {
		return nil, err
	}
	customer, err := order.NewCustomer(dto.CustomerName, dto.CustomerEmail, dto.CustomerPhone, dto.DeliveryAddress)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	pm, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Items))
	for _, item := range dto.Items {
		lineID, idErr := kernel.UUIDFromGoogle(item.ID)
		if idErr != nil {
			return nil, idErr
		}
		price, priceErr := kernel.NewMoney(item.Price)
		if priceErr != nil {
			return nil, priceErr
		}
		line, lineErr := order.NewLine(lineID, item.ItemName, item.Quantity, price)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:            id,
		Number:        number,
		Customer:      customer,
		Notes:         dto.Notes,
		Lines:         lines,
		Total:         total,
		PaymentMethod: pm,
		Status:        status,
		CreatedAt:     dto.CreatedAt.UTC(),
		UpdatedAt:     dto.UpdatedAt.UTC(),
		Version:       dto.Version,
	})
}

func toSnapshot(dto OrderDTO) (order.Snapshot, error) {
	o, err := toDomain(dto)
	if err != nil {
		return order.Snapshot{}, err
	}
	return o.Snapshot(), nil
}
