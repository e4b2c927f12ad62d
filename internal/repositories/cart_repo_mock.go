package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pasar/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository. When a
// product repository is attached, reads mirror the GORM preload behaviour and
// return lines with the live product filled in.
type MockCartRepository struct {
	mu       sync.RWMutex
	items    map[uint]models.CartItem
	nextID   uint
	products *MockProductRepository
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository(products *MockProductRepository) *MockCartRepository {
	return &MockCartRepository{
		items:    make(map[uint]models.CartItem),
		nextID:   1,
		products: products,
	}
}

func (r *MockCartRepository) snapshot() map[uint]models.CartItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := make(map[uint]models.CartItem, len(r.items))
	for id, item := range r.items {
		s[id] = item
	}
	return s
}

func (r *MockCartRepository) restore(s map[uint]models.CartItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = s
}

func (r *MockCartRepository) withProduct(item models.CartItem) *models.CartItem {
	if r.products != nil {
		if p, err := r.products.GetByID(context.Background(), item.ProductID); err == nil {
			item.Product = p
		}
	}
	return &item
}

// GetByID returns a cart line by its ID.
func (r *MockCartRepository) GetByID(ctx context.Context, id uint) (*models.CartItem, error) {
	r.mu.RLock()
	item, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	return r.withProduct(item), nil
}

// GetByUserAndProduct returns the line a user holds for a product.
func (r *MockCartRepository) GetByUserAndProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	r.mu.RLock()
	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			r.mu.RUnlock()
			return r.withProduct(item), nil
		}
	}
	r.mu.RUnlock()
	return nil, fmt.Errorf("cart item for user %d product %d: %w", userID, productID, ErrNotFound)
}

// GetByUser returns all cart lines for a user.
func (r *MockCartRepository) GetByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	r.mu.RLock()
	matched := make([]models.CartItem, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			matched = append(matched, item)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	items := make([]models.CartItem, 0, len(matched))
	for _, item := range matched {
		items = append(items, *r.withProduct(item))
	}
	return items, nil
}

// Create adds a new cart line.
func (r *MockCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.nextID
		r.nextID++
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	stored := *item
	stored.Product = nil
	r.items[item.ID] = stored
	return nil
}

// Update modifies an existing cart line.
func (r *MockCartRepository) Update(ctx context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("cart item %d: %w", item.ID, ErrNotFound)
	}
	item.UpdatedAt = time.Now()
	stored := *item
	stored.Product = nil
	r.items[item.ID] = stored
	return nil
}

// Delete removes a cart line by its ID.
func (r *MockCartRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

// ClearUser removes every cart line for a user.
func (r *MockCartRepository) ClearUser(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}
