package repositories

import (
	"context"
	"errors"
	"fmt"

	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByID retrieves a single cart line with its product preloaded.
func (r *GORMCartRepository) GetByID(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item %d: %w", id, err)
	}
	return &item, nil
}

// GetByUserAndProduct retrieves the single line a user holds for a product.
func (r *GORMCartRepository) GetByUserAndProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").
		First(&item, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item for user %d product %d: %w", userID, productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item for user %d product %d: %w", userID, productID, err)
	}
	return &item, nil
}

// GetByUser retrieves all cart lines for a user, newest first.
func (r *GORMCartRepository) GetByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for user %d: %w", userID, err)
	}
	return items, nil
}

// Create creates a new cart line.
func (r *GORMCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// Update persists a mutated cart line.
func (r *GORMCartRepository) Update(ctx context.Context, item *models.CartItem) error {
	res := r.db.WithContext(ctx).Omit("Product").Save(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d: %w", item.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a single cart line.
func (r *GORMCartRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	return nil
}

// ClearUser removes every cart line for a user. A no-op on an empty cart.
func (r *GORMCartRepository) ClearUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.CartItem{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %d: %w", userID, err)
	}
	return nil
}
