package order_test

import (
	"testing"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransitionPolicy(t *testing.T) {
	p, err := order.ParseTransitionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, order.Permissive, p)

	p, err = order.ParseTransitionPolicy("monotonic")
	require.NoError(t, err)
	assert.Equal(t, order.Monotonic, p)
	assert.Equal(t, "monotonic", p.String())

	_, err = order.ParseTransitionPolicy("strict")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPermissive_AcceptsEveryValidTarget(t *testing.T) {
	for _, from := range order.Statuses() {
		for _, to := range order.Statuses() {
			require.NoError(t, order.Permissive.CanAdvanceTo(from, to), "%s -> %s", from, to)
		}
	}

	require.ErrorIs(t, order.Permissive.CanAdvanceTo(order.Pending, order.Unknown), errs.ErrValueIsInvalid)
}

func TestMonotonic(t *testing.T) {
	tests := []struct {
		from, to order.Status
		allowed  bool
	}{
		{order.Pending, order.Confirmed, true},
		{order.Pending, order.Delivered, true},
		{order.Preparing, order.Ready, true},
		{order.OutForDelivery, order.Delivered, true},
		{order.Pending, order.Cancelled, true},
		{order.OutForDelivery, order.Cancelled, true},
		{order.Preparing, order.Confirmed, false},
		{order.Ready, order.Ready, false},
		{order.Delivered, order.Pending, false},
		{order.Delivered, order.Cancelled, false},
		{order.Cancelled, order.Pending, false},
		{order.Cancelled, order.Cancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			err := order.Monotonic.CanAdvanceTo(tt.from, tt.to)

			if tt.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errs.ErrTransitionNotAllowed)
		})
	}
}
