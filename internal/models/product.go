package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the moderation state of a product.
type ProductStatus string

const (
	ProductPending  ProductStatus = "Pending"
	ProductApproved ProductStatus = "Approved"
	ProductRejected ProductStatus = "Rejected"
)

func (s ProductStatus) String() string { return string(s) }

// AllowedProductTransitions returns the moderation states reachable from s.
// Approval and rejection happen only from Pending; an Approved product goes
// back to Pending when its seller edits it. Rejected is a dead end until the
// product is resubmitted through moderation tooling outside this table.
func AllowedProductTransitions(from ProductStatus) []ProductStatus {
	switch from {
	case ProductPending:
		return []ProductStatus{ProductApproved, ProductRejected}
	case ProductApproved:
		return []ProductStatus{ProductPending}
	default:
		return nil
	}
}

// CanTransitionTo reports whether the moderation state machine permits s -> to.
func (s ProductStatus) CanTransitionTo(to ProductStatus) bool {
	for _, t := range AllowedProductTransitions(s) {
		if t == to {
			return true
		}
	}
	return false
}

// Product represents a catalog entry owned by a seller.
type Product struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"type:varchar(200)"`
	Description      string          `json:"description" gorm:"type:varchar(2000)"`
	Price            decimal.Decimal `json:"price" gorm:"type:decimal(18,2)"`
	StockQuantity    int             `json:"stock_quantity"`
	ImageURL         string          `json:"image_url" gorm:"type:varchar(500)"`
	CategoryID       uint            `json:"category_id"`
	CreatedByUserID  uint            `json:"created_by_user_id"`
	Status           ProductStatus   `json:"status" gorm:"type:varchar(20);default:Pending"`
	IsActive         bool            `json:"is_active" gorm:"default:true"`
	ApprovedByUserID *uint           `json:"approved_by_user_id,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Purchasable reports whether the product may be added to a cart or ordered.
func (p *Product) Purchasable() bool {
	return p.Status == ProductApproved && p.IsActive
}
