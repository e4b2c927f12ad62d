package models_test

import (
	"testing"

	"pasar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"Pending", "Processing", "Shipped", "Delivered", "Cancelled"} {
		status, ok := models.ParseOrderStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, valid, status.String())
	}

	for _, invalid := range []string{"", "pending", "Paid", "CANCELLED", "Unknown"} {
		_, ok := models.ParseOrderStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, models.OrderCancelled.IsTerminal())
	assert.True(t, models.OrderDelivered.IsTerminal())
	assert.False(t, models.OrderPending.IsTerminal())
	assert.False(t, models.OrderProcessing.IsTerminal())
	assert.False(t, models.OrderShipped.IsTerminal())
}

func TestOrderStatusTransitions(t *testing.T) {
	all := []models.OrderStatus{
		models.OrderPending, models.OrderProcessing, models.OrderShipped,
		models.OrderDelivered, models.OrderCancelled,
	}

	// Non-terminal orders may move anywhere, skipping steps included.
	for _, from := range []models.OrderStatus{models.OrderPending, models.OrderProcessing, models.OrderShipped} {
		for _, to := range all {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	// Terminal orders accept only a self-transition.
	for _, from := range []models.OrderStatus{models.OrderDelivered, models.OrderCancelled} {
		for _, to := range all {
			if to == from {
				assert.True(t, from.CanTransitionTo(to), "%s -> %s", from, to)
			} else {
				assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
			}
		}
	}
}

func TestProductStatusTransitions(t *testing.T) {
	assert.True(t, models.ProductPending.CanTransitionTo(models.ProductApproved))
	assert.True(t, models.ProductPending.CanTransitionTo(models.ProductRejected))
	assert.False(t, models.ProductPending.CanTransitionTo(models.ProductPending))

	// An approved product only goes back into moderation.
	assert.True(t, models.ProductApproved.CanTransitionTo(models.ProductPending))
	assert.False(t, models.ProductApproved.CanTransitionTo(models.ProductRejected))
	assert.False(t, models.ProductApproved.CanTransitionTo(models.ProductApproved))

	assert.Empty(t, models.AllowedProductTransitions(models.ProductRejected))
}

func TestProductPurchasable(t *testing.T) {
	p := models.Product{Status: models.ProductApproved, IsActive: true}
	assert.True(t, p.Purchasable())

	p.IsActive = false
	assert.False(t, p.Purchasable())

	p.IsActive = true
	p.Status = models.ProductPending
	assert.False(t, p.Purchasable())
}
