package repositories

import (
	"context"

	"pasar/internal/models"
)

// CartRepository defines the interface for cart line data access. Reads
// preload the referenced product so callers can compute live subtotals.
type CartRepository interface {
	GetByID(ctx context.Context, id uint) (*models.CartItem, error)
	GetByUserAndProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	GetByUser(ctx context.Context, userID uint) ([]models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	Update(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, id uint) error
	// ClearUser removes every line for the user. Clearing an empty cart is
	// not an error.
	ClearUser(ctx context.Context, userID uint) error
}
