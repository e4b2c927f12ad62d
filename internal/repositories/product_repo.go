package repositories

import (
	"context"

	"pasar/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Stock is mutated only through DecrementStock and RestoreStock so that the
// quantity can never be driven below zero, even under concurrent checkouts.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetApproved(ctx context.Context) ([]models.Product, error)
	GetPending(ctx context.Context) ([]models.Product, error)
	GetBySeller(ctx context.Context, sellerID uint) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	// SoftDelete clears the active flag. The row is retained so order items
	// keep a valid product reference.
	SoftDelete(ctx context.Context, id uint) error
	// DecrementStock atomically subtracts quantity from the product's stock.
	// It fails with ErrInsufficientStock when stock < quantity and never
	// leaves a negative stock behind.
	DecrementStock(ctx context.Context, id uint, quantity int) error
	// RestoreStock atomically adds quantity back to the product's stock.
	RestoreStock(ctx context.Context, id uint, quantity int) error
}
