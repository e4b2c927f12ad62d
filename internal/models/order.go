package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) String() string { return string(s) }

// ParseOrderStatus maps a raw status string to an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(raw), true
	}
	return "", false
}

// IsTerminal reports whether no further status change is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCancelled || s == OrderDelivered
}

// AllowedOrderTransitions returns the statuses reachable from s. Non-terminal
// orders may move to any status, skipping included; terminal orders accept
// only a self-transition, which callers treat as a no-op.
func AllowedOrderTransitions(from OrderStatus) []OrderStatus {
	if from.IsTerminal() {
		return []OrderStatus{from}
	}
	return []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}
}

// CanTransitionTo reports whether the order state machine permits s -> to.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, t := range AllowedOrderTransitions(s) {
		if t == to {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of a cart at checkout time. Only Status and
// UpdatedAt change after creation.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Number          string          `json:"number" gorm:"uniqueIndex;type:varchar(36)"`
	UserID          uint            `json:"user_id" gorm:"index"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:Pending"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,2)"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:varchar(200)"`
	ShippingCity    string          `json:"shipping_city" gorm:"type:varchar(100)"`
	ShippingState   string          `json:"shipping_state" gorm:"type:varchar(50)"`
	ShippingZipCode string          `json:"shipping_zip_code" gorm:"type:varchar(20)"`
	ShippingCountry string          `json:"shipping_country" gorm:"type:varchar(100)"`
	Notes           string          `json:"notes" gorm:"type:varchar(500)"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem freezes a product's name and price at order-creation time. It is
// never mutated afterwards, so later catalog edits do not affect the order.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"index"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name" gorm:"type:varchar(200)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(18,2)"`
	Quantity    int             `json:"quantity"`
	SubTotal    decimal.Decimal `json:"sub_total" gorm:"type:decimal(18,2)"`
}
