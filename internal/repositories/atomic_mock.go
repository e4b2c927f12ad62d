package repositories

import (
	"context"
	"sync"
)

// MockAtomic is an in-memory implementation of Atomic. Units of work are
// serialized behind a mutex; store state is snapshotted up front and restored
// when the closure fails, so a failed unit leaves no partial mutation, the
// same all-or-nothing behaviour a database transaction provides.
type MockAtomic struct {
	mu       sync.Mutex
	products *MockProductRepository
	carts    *MockCartRepository
	orders   *MockOrderRepository
}

// NewMockAtomic creates a new instance of MockAtomic over the given stores.
func NewMockAtomic(products *MockProductRepository, carts *MockCartRepository, orders *MockOrderRepository) *MockAtomic {
	return &MockAtomic{
		products: products,
		carts:    carts,
		orders:   orders,
	}
}

// Transact implements Atomic.
func (a *MockAtomic) Transact(ctx context.Context, fn func(Repos) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	products := a.products.snapshot()
	carts := a.carts.snapshot()
	orders := a.orders.snapshot()

	err := fn(Repos{Products: a.products, Carts: a.carts, Orders: a.orders})
	if err != nil {
		a.products.restore(products)
		a.carts.restore(carts)
		a.orders.restore(orders)
		return err
	}
	return nil
}
