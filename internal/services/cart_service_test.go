package services_test

import (
	"context"
	"testing"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"
	"pasar/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T) (*services.CartService, *repositories.MockProductRepository, *repositories.MockCartRepository) {
	t.Helper()
	products := repositories.NewMockProductRepository()
	carts := repositories.NewMockCartRepository(products)
	return services.NewCartService(carts, products), products, carts
}

func seedProduct(t *testing.T, products *repositories.MockProductRepository, p models.Product) *models.Product {
	t.Helper()
	if p.Name == "" {
		p.Name = "Widget"
	}
	require.NoError(t, products.Create(context.Background(), &p))
	return &p
}

func TestAddToCartMergeRevalidatesStock(t *testing.T) {
	svc, products, _ := newCartFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, models.Product{
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})

	item, err := svc.AddToCart(ctx, 1, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.SubTotal().Equal(decimal.NewFromFloat(30.00)), "subtotal %s", item.SubTotal())

	// A second add merges to 6, which stock 5 cannot cover. The line must
	// stay at 3.
	_, err = svc.AddToCart(ctx, 1, product.ID, 3)
	require.Error(t, err)
	assert.Equal(t, apperr.KindCapacityExceeded, apperr.KindOf(err))

	line, err := svc.UpdateItem(ctx, item.ID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.SubTotal().Equal(decimal.NewFromFloat(50.00)))
}

func TestAddToCartMergeWithinStock(t *testing.T) {
	svc, products, _ := newCartFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, models.Product{
		Price:         decimal.NewFromFloat(2.50),
		StockQuantity: 10,
		Status:        models.ProductApproved,
		IsActive:      true,
	})

	first, err := svc.AddToCart(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	second, err := svc.AddToCart(ctx, 1, product.ID, 4)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "merge must reuse the existing line")
	assert.Equal(t, 6, second.Quantity)

	lines, err := svc.GetUserCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestAddToCartRejectsUnavailableProducts(t *testing.T) {
	svc, products, _ := newCartFixture(t)
	ctx := context.Background()

	pending := seedProduct(t, products, models.Product{
		Price:         decimal.NewFromFloat(5.00),
		StockQuantity: 5,
		Status:        models.ProductPending,
		IsActive:      true,
	})
	inactive := seedProduct(t, products, models.Product{
		Price:         decimal.NewFromFloat(5.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      false,
	})

	_, err := svc.AddToCart(ctx, 1, 999, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.AddToCart(ctx, 1, pending.ID, 1)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = svc.AddToCart(ctx, 1, inactive.ID, 1)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = svc.AddToCart(ctx, 1, pending.ID, 0)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestAddToCartInsufficientStock(t *testing.T) {
	svc, products, _ := newCartFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, models.Product{
		Price:         decimal.NewFromFloat(5.00),
		StockQuantity: 2,
		Status:        models.ProductApproved,
		IsActive:      true,
	})

	_, err := svc.AddToCart(ctx, 1, product.ID, 3)
	require.Error(t, err)
	assert.Equal(t, apperr.KindCapacityExceeded, apperr.KindOf(err))

	lines, err := svc.GetUserCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines, "a rejected add must not create a line")
}

func TestUpdateItemOwnershipAndStock(t *testing.T) {
	svc, products, _ := newCartFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, models.Product{
		Price:         decimal.NewFromFloat(5.00),
		StockQuantity: 4,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	item, err := svc.AddToCart(ctx, 1, product.ID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, item.ID, 2, 3)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.UpdateItem(ctx, item.ID, 1, 5)
	assert.Equal(t, apperr.KindCapacityExceeded, apperr.KindOf(err))

	_, err = svc.UpdateItem(ctx, 999, 1, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRemoveItemAbsentIsNotAnError(t *testing.T) {
	svc, products, _ := newCartFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, models.Product{
		Price:         decimal.NewFromFloat(5.00),
		StockQuantity: 4,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	item, err := svc.AddToCart(ctx, 1, product.ID, 1)
	require.NoError(t, err)

	removed, err := svc.RemoveItem(ctx, item.ID, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveItem(ctx, item.ID, 1)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.RemoveItem(ctx, 999, 1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCartTotalTracksLivePrices(t *testing.T) {
	svc, products, _ := newCartFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, models.Product{
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 10,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	_, err := svc.AddToCart(ctx, 1, product.ID, 3)
	require.NoError(t, err)

	total, err := svc.CartTotal(ctx, 1)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(30.00)))

	// Reprice the catalog entry: the cart line reflects it on the next read.
	product.Price = decimal.NewFromFloat(12.50)
	require.NoError(t, products.Update(ctx, product))

	total, err = svc.CartTotal(ctx, 1)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(37.50)), "total %s", total)
}

func TestClearCartRemovesAllLines(t *testing.T) {
	svc, products, _ := newCartFixture(t)
	ctx := context.Background()

	a := seedProduct(t, products, models.Product{
		Price: decimal.NewFromFloat(1.00), StockQuantity: 5,
		Status: models.ProductApproved, IsActive: true,
	})
	b := seedProduct(t, products, models.Product{
		Price: decimal.NewFromFloat(2.00), StockQuantity: 5,
		Status: models.ProductApproved, IsActive: true,
	})
	_, err := svc.AddToCart(ctx, 1, a.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 1, b.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 2, a.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, 1))

	lines, err := svc.GetUserCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)

	other, err := svc.GetUserCart(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1, "clearing one user must not touch another")

	// Clearing an already empty cart succeeds.
	require.NoError(t, svc.ClearCart(ctx, 1))
}
