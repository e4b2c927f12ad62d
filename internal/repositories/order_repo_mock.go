package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pasar/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	mu         sync.RWMutex
	orders     map[uint]models.Order
	nextID     uint
	nextItemID uint
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders:     make(map[uint]models.Order),
		nextID:     1,
		nextItemID: 1,
	}
}

func (r *MockOrderRepository) snapshot() map[uint]models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := make(map[uint]models.Order, len(r.orders))
	for id, o := range r.orders {
		o.Items = append([]models.OrderItem(nil), o.Items...)
		s[id] = o
	}
	return s
}

func (r *MockOrderRepository) restore(s map[uint]models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = s
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	order.Items = append([]models.OrderItem(nil), order.Items...)
	return &order, nil
}

// GetByUser returns all orders placed by a user.
func (r *MockOrderRepository) GetByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

// Create adds a new order together with its items.
func (r *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == 0 {
		order.ID = r.nextID
		r.nextID++
	}
	for i := range order.Items {
		if order.Items[i].ID == 0 {
			order.Items[i].ID = r.nextItemID
			r.nextItemID++
		}
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	r.orders[order.ID] = stored
	return nil
}

// SetStatusIf flips the order status only when the stored status still
// equals from.
func (r *MockOrderRepository) SetStatusIf(ctx context.Context, id uint, from, to models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if order.Status != from {
		return fmt.Errorf("order %d: %w", id, ErrStatusChanged)
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
