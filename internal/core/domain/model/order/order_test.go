package order_test

import (
	"testing"
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 11, 16, 30, 56, 789_123_456, time.UTC)

func validCustomer(t *testing.T) order.Customer {
	t.Helper()
	c, err := order.NewCustomer("Asha Rao", "asha@example.com", "+91 98450 00000", "12 MG Road, Bengaluru")
	require.NoError(t, err)
	return c
}

func validLine(t *testing.T, name string, qty int, price int64) order.Line {
	t.Helper()
	p, err := kernel.MoneyFromInt(price)
	require.NoError(t, err)
	l, err := order.NewLine(kernel.NewUUID(), name, qty, p)
	require.NoError(t, err)
	return l
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.NumberAt(t0),
		validCustomer(t),
		"  ring twice ",
		[]order.Line{validLine(t, "Hyderabadi Dum Biryani", 3, 349)},
		order.CashOnDelivery,
		t0,
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates_pending_order_with_derived_total", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(),
			order.NumberAt(t0),
			validCustomer(t),
			"",
			[]order.Line{validLine(t, "A", 2, 100), validLine(t, "B", 1, 50)},
			order.UPI,
			t0,
		)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, "250.00", o.Total().String())
		assert.Equal(t, int64(1), o.Version())
		assert.Equal(t, o.CreatedAt(), o.UpdatedAt())
		assert.Equal(t, t0.Truncate(time.Microsecond), o.CreatedAt())
		assert.Regexp(t, `^ORD-\d{8}$`, o.Number().String())
	})

	t.Run("records_created_event", func(t *testing.T) {
		o := newPendingOrder(t)

		events := o.DomainEvents()
		require.Len(t, events, 1)
		created, ok := events[0].(order.CreatedEvent)
		require.True(t, ok)
		assert.True(t, created.Order.ID.IsEqual(o.ID()))
		assert.Equal(t, "ring twice", created.Order.Notes)
		assert.Equal(t, order.CreatedEventType, created.EventType())

		o.ClearDomainEvents()
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("requires_at_least_one_line", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), order.NumberAt(t0), validCustomer(t), "", nil, order.Card, t0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, o)
	})

	t.Run("joins_every_validation_error", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, order.Number("bad"), order.Customer{}, "", nil, "paypal", t0)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "orderNumber")
		assert.Contains(t, err.Error(), "Customer must be created")
		assert.Contains(t, err.Error(), "lines")
		assert.Contains(t, err.Error(), "paymentMethod")
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("writes_status_and_bumps_version", func(t *testing.T) {
		o := newPendingOrder(t)
		o.ClearDomainEvents()

		err := o.ChangeStatus(order.Confirmed, order.Permissive, t0.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, o.Status())
		assert.Equal(t, int64(2), o.Version())
		events := o.DomainEvents()
		require.Len(t, events, 1)
		updated := events[0].(order.UpdatedEvent)
		assert.Equal(t, order.Confirmed, updated.Status)
		assert.Equal(t, int64(2), updated.Version)
		assert.Equal(t, []string{"status", "updated_at"}, updated.ChangedFields)
	})

	t.Run("updated_at_strictly_increases_even_if_clock_stalls", func(t *testing.T) {
		o := newPendingOrder(t)
		before := o.UpdatedAt()

		require.NoError(t, o.ChangeStatus(order.Confirmed, order.Permissive, t0))
		first := o.UpdatedAt()
		require.NoError(t, o.ChangeStatus(order.Preparing, order.Permissive, t0.Add(-time.Hour)))

		assert.True(t, first.After(before))
		assert.True(t, o.UpdatedAt().After(first))
	})

	t.Run("permissive_allows_leaving_terminal_state", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.ChangeStatus(order.Delivered, order.Permissive, t0.Add(time.Second)))

		require.NoError(t, o.ChangeStatus(order.Pending, order.Permissive, t0.Add(2*time.Second)))
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("monotonic_rejection_leaves_order_untouched", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.ChangeStatus(order.Ready, order.Monotonic, t0.Add(time.Second)))
		o.ClearDomainEvents()
		version, updatedAt := o.Version(), o.UpdatedAt()

		err := o.ChangeStatus(order.Confirmed, order.Monotonic, t0.Add(time.Minute))

		require.ErrorIs(t, err, errs.ErrTransitionNotAllowed)
		assert.Equal(t, order.Ready, o.Status())
		assert.Equal(t, version, o.Version())
		assert.Equal(t, updatedAt, o.UpdatedAt())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("invalid_target_is_rejected", func(t *testing.T) {
		o := newPendingOrder(t)

		require.ErrorIs(t, o.ChangeStatus(order.Unknown, order.Permissive, t0), errs.ErrValueIsInvalid)
	})
}

func TestOrder_RenumberTo(t *testing.T) {
	o := newPendingOrder(t)
	next := o.Number().Next()

	require.NoError(t, o.RenumberTo(next))

	assert.Equal(t, next, o.Number())
	created := o.DomainEvents()[0].(order.CreatedEvent)
	assert.Equal(t, next, created.Order.Number)
	require.ErrorIs(t, o.RenumberTo("nope"), errs.ErrValueIsInvalid)
}

func TestRestoreOrder(t *testing.T) {
	total, _ := kernel.MoneyFromInt(1047)
	params := order.RestoreParams{
		ID:            kernel.NewUUID(),
		Number:        "ORD-00000001",
		Customer:      validCustomer(t),
		Lines:         []order.Line{validLine(t, "Hyderabadi Dum Biryani", 3, 349)},
		Total:         total,
		PaymentMethod: order.CashOnDelivery,
		Status:        order.OutForDelivery,
		CreatedAt:     t0,
		UpdatedAt:     t0.Add(time.Hour),
		Version:       5,
	}

	o, err := order.RestoreOrder(params)

	require.NoError(t, err)
	assert.Equal(t, order.OutForDelivery, o.Status())
	assert.Equal(t, int64(5), o.Version())
	assert.Empty(t, o.DomainEvents())

	params.Status = order.Unknown
	_, err = order.RestoreOrder(params)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestSnapshot_Apply(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.ChangeStatus(order.Preparing, order.Permissive, t0.Add(time.Minute)))
	snap := o.Snapshot()

	t.Run("newer_version_wins", func(t *testing.T) {
		merged, applied := snap.Apply(order.UpdatedEvent{
			OrderID: o.ID(), Status: order.Ready, UpdatedAt: t0.Add(2 * time.Minute), Version: 3,
		})

		assert.True(t, applied)
		assert.Equal(t, order.Ready, merged.Status)
		assert.Equal(t, int64(3), merged.Version)
	})

	t.Run("stale_version_is_dropped", func(t *testing.T) {
		merged, applied := snap.Apply(order.UpdatedEvent{OrderID: o.ID(), Status: order.Confirmed, Version: 1})

		assert.False(t, applied)
		assert.Equal(t, order.Preparing, merged.Status)
	})

	t.Run("other_order_is_ignored", func(t *testing.T) {
		_, applied := snap.Apply(order.UpdatedEvent{OrderID: kernel.NewUUID(), Status: order.Ready, Version: 9})

		assert.False(t, applied)
	})
}

func TestNewCustomer(t *testing.T) {
	_, err := order.NewCustomer(" ", "no-at-sign", "", "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "customerName")
	assert.Contains(t, err.Error(), "customerEmail")
	assert.Contains(t, err.Error(), "customerPhone")
	assert.Contains(t, err.Error(), "deliveryAddress")
}

func TestNewLine(t *testing.T) {
	price, _ := kernel.MoneyFromInt(349)

	_, err := order.NewLine(kernel.NewUUID(), "Biryani", 0, price)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	l, err := order.NewLine(kernel.NewUUID(), "Biryani", 3, price)
	require.NoError(t, err)
	assert.Equal(t, "1047.00", l.Subtotal().String())
}

func TestParsePaymentMethod(t *testing.T) {
	for _, s := range []string{"cod", "upi", "card"} {
		pm, err := order.ParsePaymentMethod(s)
		require.NoError(t, err)
		assert.Equal(t, s, pm.String())
	}
	_, err := order.ParsePaymentMethod("bitcoin")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
