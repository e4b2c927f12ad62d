package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pasar/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[uint]models.Product
	nextID   uint
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

func (r *MockProductRepository) snapshot() map[uint]models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := make(map[uint]models.Product, len(r.products))
	for id, p := range r.products {
		s[id] = p
	}
	return s
}

func (r *MockProductRepository) restore(s map[uint]models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = s
}

func (r *MockProductRepository) list(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.list(func(models.Product) bool { return true }), nil
}

// GetApproved returns the purchasable products.
func (r *MockProductRepository) GetApproved(ctx context.Context) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.Purchasable() }), nil
}

// GetPending returns the products awaiting moderation.
func (r *MockProductRepository) GetPending(ctx context.Context) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.Status == models.ProductPending }), nil
}

// GetBySeller returns the products created by the given user.
func (r *MockProductRepository) GetBySeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.CreatedByUserID == sellerID }), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	} else if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product %d: %w", product.ID, ErrNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// SoftDelete clears the active flag of a product.
func (r *MockProductRepository) SoftDelete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	product.IsActive = false
	r.products[id] = product
	return nil
}

// DecrementStock subtracts quantity when enough stock remains.
func (r *MockProductRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if product.StockQuantity < quantity {
		return fmt.Errorf("product %d: %w", id, ErrInsufficientStock)
	}
	product.StockQuantity -= quantity
	r.products[id] = product
	return nil
}

// RestoreStock adds quantity back to a product's stock.
func (r *MockProductRepository) RestoreStock(ctx context.Context, id uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	product.StockQuantity += quantity
	r.products[id] = product
	return nil
}
