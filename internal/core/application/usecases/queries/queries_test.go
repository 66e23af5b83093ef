package queries_test

import (
	"context"
	"errors"
	"testing"

	"foodorders/internal/core/application/usecases/queries"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/menu"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (order.Snapshot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(order.Snapshot)
	return s, args.Error(1)
}

func (m *MockOrderReader) FindByNumber(ctx context.Context, number string) (*order.Snapshot, error) {
	args := m.Called(ctx, number)
	s, _ := args.Get(0).(*order.Snapshot)
	return s, args.Error(1)
}

func (m *MockOrderReader) ListAll(ctx context.Context) ([]order.Snapshot, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]order.Snapshot)
	return s, args.Error(1)
}

func TestGetOrderQueryHandler(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()

	t.Run("found", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("Get", ctx, id).Return(order.Snapshot{ID: id, Status: order.Ready}, nil).Once()
		query, err := queries.NewGetOrderQuery(id)
		require.NoError(t, err)

		snap, err := queries.NewGetOrderQueryHandler(reader).Handle(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, order.Ready, snap.Status)
	})

	t.Run("not_found", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("orderId", id.String())).Once()
		query, _ := queries.NewGetOrderQuery(id)

		_, err := queries.NewGetOrderQueryHandler(reader).Handle(ctx, query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("zero_value_query", func(t *testing.T) {
		_, err := queries.NewGetOrderQueryHandler(new(MockOrderReader)).Handle(ctx, queries.GetOrderQuery{})

		require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
	})
}

func TestFindOrderByNumberQueryHandler(t *testing.T) {
	ctx := t.Context()

	t.Run("miss_is_not_an_error", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("FindByNumber", ctx, "ORD-00000000").Return(nil, nil).Once()
		query, err := queries.NewFindOrderByNumberQuery("ORD-00000000")
		require.NoError(t, err)

		found, err := queries.NewFindOrderByNumberQueryHandler(reader).Handle(ctx, query)

		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("hit", func(t *testing.T) {
		reader := new(MockOrderReader)
		snap := &order.Snapshot{Number: "ORD-12345678"}
		reader.On("FindByNumber", ctx, "ORD-12345678").Return(snap, nil).Once()
		query, _ := queries.NewFindOrderByNumberQuery("ORD-12345678")

		found, err := queries.NewFindOrderByNumberQueryHandler(reader).Handle(ctx, query)

		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, order.Number("ORD-12345678"), found.Number)
	})

	t.Run("surrounding_whitespace_is_trimmed", func(t *testing.T) {
		reader := new(MockOrderReader)
		snap := &order.Snapshot{Number: "ORD-12345678"}
		reader.On("FindByNumber", ctx, "ORD-12345678").Return(snap, nil).Once()
		query, err := queries.NewFindOrderByNumberQuery("  ORD-12345678\t")
		require.NoError(t, err)
		assert.Equal(t, "ORD-12345678", query.Number())

		found, err := queries.NewFindOrderByNumberQueryHandler(reader).Handle(ctx, query)

		require.NoError(t, err)
		require.NotNil(t, found)
		reader.AssertExpectations(t)
	})

	t.Run("blank_number", func(t *testing.T) {
		_, err := queries.NewFindOrderByNumberQuery("  ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestListOrdersQueryHandler(t *testing.T) {
	ctx := t.Context()

	t.Run("empty_store_gives_empty_slice", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("ListAll", ctx).Return(nil, nil).Once()

		orders, err := queries.NewListOrdersQueryHandler(reader).Handle(ctx)

		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})

	t.Run("error_passes_through", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("ListAll", ctx).Return(nil, errors.New("boom")).Once()

		_, err := queries.NewListOrdersQueryHandler(reader).Handle(ctx)

		require.EqualError(t, err, "boom")
	})
}

func TestGetMenuQueryHandler(t *testing.T) {
	items := queries.NewGetMenuQueryHandler(menu.DefaultCatalog()).Handle()

	require.Len(t, items, 6)
	assert.Equal(t, "Vegetable Biryani", items[5].Name())
}
