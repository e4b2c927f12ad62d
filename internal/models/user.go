package models

import "time"

// Roles recognized by the marketplace.
const (
	RoleAdmin    = "Admin"
	RoleSeller   = "Seller"
	RoleCustomer = "Customer"
)

// IsElevated reports whether a role may moderate products and manage any order.
func IsElevated(role string) bool {
	return role == RoleAdmin
}

// ValidRole reports whether role is one of the recognized role values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSeller || role == RoleCustomer
}

// User represents an account on the marketplace.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password  string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash
	FirstName string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(100)"`
	Role      string    `json:"role" gorm:"type:varchar(20);default:Customer"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
