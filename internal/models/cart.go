package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one desired (user, product) line. At most one line exists per
// pair; repeated adds merge into the existing quantity.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index:idx_cart_user_product,unique"`
	ProductID uint      `json:"product_id" gorm:"index:idx_cart_user_product,unique"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Product is preloaded by the repository so the live catalog price is
	// available for subtotal computation. Cart lines are not price-frozen.
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// SubTotal is the live price of the line: current product price times
// quantity. Zero when the product has not been loaded.
func (c *CartItem) SubTotal() decimal.Decimal {
	if c.Product == nil {
		return decimal.Zero
	}
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
