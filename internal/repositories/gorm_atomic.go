package repositories

import (
	"context"

	"gorm.io/gorm"
)

// GORMAtomic runs units of work inside a database transaction. The closure
// receives repositories bound to the transaction handle; a returned error or
// an expired context rolls everything back.
type GORMAtomic struct {
	db *gorm.DB
}

// NewGORMAtomic creates a new instance of GORMAtomic.
func NewGORMAtomic(db *gorm.DB) *GORMAtomic {
	return &GORMAtomic{
		db: db,
	}
}

// Transact implements Atomic.
func (a *GORMAtomic) Transact(ctx context.Context, fn func(Repos) error) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Products: NewGORMProductRepository(tx),
			Carts:    NewGORMCartRepository(tx),
			Orders:   NewGORMOrderRepository(tx),
		})
	})
}
