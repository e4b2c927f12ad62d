package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pasar/internal/models"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[uint]models.Category
	nextID     uint
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[uint]models.Category),
		nextID:     1,
	}
}

// GetAll returns all categories.
func (r *MockCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

// GetByID returns a category by its ID.
func (r *MockCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return &category, nil
}

// Create adds a new category.
func (r *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == 0 {
		category.ID = r.nextID
		r.nextID++
	}
	r.categories[category.ID] = *category
	return nil
}

// Update modifies an existing category.
func (r *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return fmt.Errorf("category %d: %w", category.ID, ErrNotFound)
	}
	r.categories[category.ID] = *category
	return nil
}

// Deactivate clears the active flag of a category.
func (r *MockCategoryRepository) Deactivate(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id]
	if !ok {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	category.IsActive = false
	r.categories[id] = category
	return nil
}
