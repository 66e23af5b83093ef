package commands_test

import (
	"context"
	"sync"

	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/domain/model/cart"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyPlaced(placed order.Snapshot) {
	m.Called(placed)
}

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

type MockOrderPlacer struct{ mock.Mock }

func (m *MockOrderPlacer) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (order.Snapshot, error) {
	args := m.Called(ctx, cmd)
	s, _ := args.Get(0).(order.Snapshot)
	return s, args.Error(1)
}

// fakeCartStore keeps carts in a map; enough to drive the cart handlers.
type fakeCartStore struct {
	mu    sync.Mutex
	carts map[kernel.UUID]*cart.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[kernel.UUID]*cart.Cart{}}
}

func (s *fakeCartStore) Create(_ context.Context) (kernel.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := kernel.NewUUID()
	c, err := cart.NewCart(id)
	if err != nil {
		return kernel.UUID{}, err
	}
	s.carts[id] = c
	return id, nil
}

func (s *fakeCartStore) Update(_ context.Context, id kernel.UUID, fn func(*cart.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return errs.NewObjectNotFoundError("cartId", id.String())
	}
	return fn(c)
}

func (s *fakeCartStore) View(ctx context.Context, id kernel.UUID, fn func(*cart.Cart) error) error {
	return s.Update(ctx, id, fn)
}

func (s *fakeCartStore) Delete(_ context.Context, id kernel.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}
