package repositories

import (
	"context"
	"errors"
	"fmt"

	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products, newest first.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetApproved retrieves the products that are purchasable: approved and active.
func (r *GORMProductRepository) GetApproved(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_active = ?", models.ProductApproved, true).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get approved products: %w", err)
	}
	return products, nil
}

// GetPending retrieves the products awaiting moderation.
func (r *GORMProductRepository) GetPending(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ProductPending).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending products: %w", err)
	}
	return products, nil
}

// GetBySeller retrieves all products created by the given user.
func (r *GORMProductRepository) GetBySeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("created_by_user_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products for seller %d: %w", sellerID, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update persists the full product row.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Save(product) // Save updates all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", product.ID, ErrNotFound)
	}
	return nil
}

// SoftDelete clears the product's active flag, keeping the row.
func (r *GORMProductRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

// DecrementStock performs a conditional decrement: the row is only touched
// when it still holds enough stock, so two racing checkouts cannot drive the
// quantity negative regardless of transaction isolation.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing row from a stock shortage.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to decrement stock for product %d: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("product %d: %w", id, ErrInsufficientStock)
	}
	return nil
}

// RestoreStock adds quantity back to the product's stock.
func (r *GORMProductRepository) RestoreStock(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to restore stock for product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}
