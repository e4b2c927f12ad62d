package repositories

import (
	"context"

	"pasar/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// always loaded together with their items.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByUser(ctx context.Context, userID uint) ([]models.Order, error)
	// Create persists the order and all of its items as one unit.
	Create(ctx context.Context, order *models.Order) error
	// SetStatusIf moves the order from one status to another only when the
	// stored status still equals from. It returns ErrStatusChanged when a
	// concurrent transition got there first.
	SetStatusIf(ctx context.Context, id uint, from, to models.OrderStatus) error
}
