package changefeed

import (
	"encoding/json"
	"fmt"
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
)

// envelope is the JSON form of an order event on the Redis channel.
type envelope struct {
	Type          string     `json:"type"`
	Origin        string     `json:"origin"`
	OrderID       string     `json:"orderId"`
	Order         *wireOrder `json:"order,omitempty"`
	ChangedFields []string   `json:"changedFields,omitempty"`
	Status        string     `json:"status,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt,omitempty"`
	Version       int64      `json:"version"`
}

type wireOrder struct {
	ID              string     `json:"id"`
	Number          string     `json:"orderNumber"`
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail"`
	CustomerPhone   string     `json:"customerPhone"`
	DeliveryAddress string     `json:"deliveryAddress"`
	Notes           string     `json:"notes"`
	Total           string     `json:"totalAmount"`
	PaymentMethod   string     `json:"paymentMethod"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Version         int64      `json:"version"`
	Lines           []wireLine `json:"lines"`
}

type wireLine struct {
	ID        string `json:"id"`
	ItemName  string `json:"itemName"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

func encodeEvent(origin string, ev order.Event) ([]byte, error) {
	env := envelope{
		Type:    ev.EventType(),
		Origin:  origin,
		OrderID: ev.AggregateID().String(),
	}
	switch e := ev.(type) {
	case order.CreatedEvent:
		w := fromSnapshot(e.Order)
		env.Order = &w
		env.Version = e.Order.Version
	case order.UpdatedEvent:
		env.ChangedFields = e.ChangedFields
		env.Status = e.Status.String()
		env.UpdatedAt = e.UpdatedAt
		env.Version = e.Version
	default:
		return nil, fmt.Errorf("unsupported event type %T", ev)
	}
	return json.Marshal(env)
}

func decodeEvent(payload []byte) (envelope, order.Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return envelope{}, nil, err
	}

	switch env.Type {
	case order.CreatedEventType:
		if env.Order == nil {
			return env, nil, fmt.Errorf("%s without order body", env.Type)
		}
		snap, err := env.Order.toSnapshot()
		if err != nil {
			return env, nil, err
		}
		return env, order.CreatedEvent{Order: snap}, nil
	case order.UpdatedEventType:
		id, err := kernel.UUIDFromString(env.OrderID)
		if err != nil {
			return env, nil, err
		}
		status, err := order.ParseStatus(env.Status)
		if err != nil {
			return env, nil, err
		}
		return env, order.UpdatedEvent{
			OrderID:       id,
			ChangedFields: env.ChangedFields,
			Status:        status,
			UpdatedAt:     env.UpdatedAt.UTC(),
			Version:       env.Version,
		}, nil
	default:
		return env, nil, fmt.Errorf("unknown event type %q", env.Type)
	}
}

func fromSnapshot(s order.Snapshot) wireOrder {
	lines := make([]wireLine, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, wireLine{
			ID:        l.ID.String(),
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.Decimal().String(),
		})
	}
	return wireOrder{
		ID:              s.ID.String(),
		Number:          s.Number.String(),
		CustomerName:    s.CustomerName,
		CustomerEmail:   s.CustomerEmail,
		CustomerPhone:   s.CustomerPhone,
		DeliveryAddress: s.DeliveryAddress,
		Notes:           s.Notes,
		Total:           s.Total.Decimal().String(),
		PaymentMethod:   s.PaymentMethod.String(),
		Status:          s.Status.String(),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Version:         s.Version,
		Lines:           lines,
	}
}

func (w wireOrder) toSnapshot() (order.Snapshot, error) {
	id, err := kernel.UUIDFromString(w.ID)
	if err != nil {
		return order.Snapshot{}, err
	}
	number, err := order.ParseNumber(w.Number)
	if err != nil {
		return order.Snapshot{}, err
	}
	total, err := kernel.MoneyFromString(w.Total)
	if err != nil {
		return order.Snapshot{}, err
	}
	pm, err := order.ParsePaymentMethod(w.PaymentMethod)
	if err != nil {
		return order.Snapshot{}, err
	}
	status, err := order.ParseStatus(w.Status)
	if err != nil {
		return order.Snapshot{}, err
	}

	lines := make([]order.LineSnapshot, 0, len(w.Lines))
	for _, l := range w.Lines {
		lineID, idErr := kernel.UUIDFromString(l.ID)
		if idErr != nil {
			return order.Snapshot{}, idErr
		}
		price, priceErr := kernel.MoneyFromString(l.UnitPrice)
		if priceErr != nil {
			return order.Snapshot{}, priceErr
		}
		lines = append(lines, order.LineSnapshot{
			ID:        lineID,
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: price,
		})
	}

	return order.Snapshot{
		ID:              id,
		Number:          number,
		CustomerName:    w.CustomerName,
		CustomerEmail:   w.CustomerEmail,
		CustomerPhone:   w.CustomerPhone,
		DeliveryAddress: w.DeliveryAddress,
		Notes:           w.Notes,
		Total:           total,
		PaymentMethod:   pm,
		Status:          status,
		CreatedAt:       w.CreatedAt.UTC(),
		UpdatedAt:       w.UpdatedAt.UTC(),
		Version:         w.Version,
		Lines:           lines,
	}, nil
}
