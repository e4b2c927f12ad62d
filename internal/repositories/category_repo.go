package repositories

import (
	"context"

	"pasar/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	// Deactivate clears the active flag; the row is retained for historical
	// product references.
	Deactivate(ctx context.Context, id uint) error
}
