package services_test

import (
	"context"
	"sync"
	"testing"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"
	"pasar/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders    *services.OrderService
	carts     *services.CartService
	products  *repositories.MockProductRepository
	cartRepo  *repositories.MockCartRepository
	orderRepo *repositories.MockOrderRepository
	publisher *recordingPublisher
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	products := repositories.NewMockProductRepository()
	cartRepo := repositories.NewMockCartRepository(products)
	orderRepo := repositories.NewMockOrderRepository()
	atomic := repositories.NewMockAtomic(products, cartRepo, orderRepo)
	publisher := &recordingPublisher{}
	return &orderFixture{
		orders:    services.NewOrderService(orderRepo, cartRepo, atomic, publisher),
		carts:     services.NewCartService(cartRepo, products),
		products:  products,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

func TestCreateFromCartFreezesPricesAndClearsCart(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	widget := seedProduct(t, f.products, models.Product{
		Name:          "Widget",
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	gadget := seedProduct(t, f.products, models.Product{
		Name:          "Gadget",
		Price:         decimal.NewFromFloat(4.50),
		StockQuantity: 2,
		Status:        models.ProductApproved,
		IsActive:      true,
	})

	_, err := f.carts.AddToCart(ctx, 1, widget.ID, 3)
	require.NoError(t, err)
	_, err = f.carts.AddToCart(ctx, 1, gadget.ID, 2)
	require.NoError(t, err)

	order, err := f.orders.CreateFromCart(ctx, 1, services.ShippingInfo{Address: "1 Main St", City: "Springfield"})
	require.NoError(t, err)

	assert.NotEmpty(t, order.Number)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(39.00)), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Widget", order.Items[0].ProductName)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromFloat(10.00)))
	assert.True(t, order.Items[0].SubTotal.Equal(decimal.NewFromFloat(30.00)))

	// Stock decremented, cart emptied.
	p, err := f.products.GetByID(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.StockQuantity)
	p, err = f.products.GetByID(ctx, gadget.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.StockQuantity)

	lines, err := f.carts.GetUserCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// A later catalog reprice must not alter the frozen order.
	widget.Price = decimal.NewFromFloat(99.99)
	require.NoError(t, f.products.Update(ctx, widget))
	reloaded, err := f.orders.GetOrderByID(ctx, order.ID, 1, models.RoleCustomer)
	require.NoError(t, err)
	assert.True(t, reloaded.Items[0].Price.Equal(decimal.NewFromFloat(10.00)))

	assert.Equal(t, []string{services.EventOrderCreated}, f.publisher.keys())
}

func TestCreateFromCartEmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.CreateFromCart(context.Background(), 1, services.ShippingInfo{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.Empty(t, f.publisher.keys())
}

func TestCreateFromCartMidLineFailureRollsBackEverything(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	good := seedProduct(t, f.products, models.Product{
		Name:          "Good",
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	scarce := seedProduct(t, f.products, models.Product{
		Name:          "Scarce",
		Price:         decimal.NewFromFloat(3.00),
		StockQuantity: 4,
		Status:        models.ProductApproved,
		IsActive:      true,
	})

	_, err := f.carts.AddToCart(ctx, 1, good.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddToCart(ctx, 1, scarce.ID, 4)
	require.NoError(t, err)

	// Stock drops under the cart line after it was added.
	require.NoError(t, f.products.DecrementStock(ctx, scarce.ID, 2))

	_, err = f.orders.CreateFromCart(ctx, 1, services.ShippingInfo{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	// The first line's decrement must have been rolled back.
	p, err := f.products.GetByID(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockQuantity)

	// Cart untouched, no order persisted.
	lines, err := f.carts.GetUserCart(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	orders, err := f.orders.GetUserOrders(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateFromCartRejectsUnpurchasableLines(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, f.products, models.Product{
		Name:          "Widget",
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	_, err := f.carts.AddToCart(ctx, 1, product.ID, 1)
	require.NoError(t, err)

	// The product is pulled back into moderation between add and checkout.
	product.Status = models.ProductPending
	require.NoError(t, f.products.Update(ctx, product))

	_, err = f.orders.CreateFromCart(ctx, 1, services.ShippingInfo{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestUpdateStatusCancelRestoresStockOnce(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, f.products, models.Product{
		Name:          "Widget",
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	_, err := f.carts.AddToCart(ctx, 1, product.ID, 3)
	require.NoError(t, err)
	order, err := f.orders.CreateFromCart(ctx, 1, services.ShippingInfo{})
	require.NoError(t, err)

	p, err := f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 2, p.StockQuantity)

	cancelled, err := f.orders.UpdateStatus(ctx, order.ID, "Cancelled", 42)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	p, err = f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockQuantity)

	// Cancelling again is a no-op and must not restore twice.
	again, err := f.orders.UpdateStatus(ctx, order.ID, "Cancelled", 42)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, again.Status)

	p, err = f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockQuantity)

	assert.Equal(t, []string{services.EventOrderCreated, services.EventOrderCancelled}, f.publisher.keys())
}

func TestUpdateStatusTerminalLock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, f.products, models.Product{
		Name:          "Widget",
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	_, err := f.carts.AddToCart(ctx, 1, product.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.CreateFromCart(ctx, 1, services.ShippingInfo{})
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, order.ID, "Delivered", 42)
	require.NoError(t, err)

	for _, target := range []string{"Pending", "Processing", "Shipped", "Cancelled"} {
		_, err := f.orders.UpdateStatus(ctx, order.ID, target, 42)
		require.Error(t, err, "delivered order accepted %s", target)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	}

	// Delivered never released stock either.
	p, err := f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, p.StockQuantity)
}

func TestUpdateStatusRejectsUnknownStatusAndMissingOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.orders.UpdateStatus(ctx, 1, "Teleported", 42)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = f.orders.UpdateStatus(ctx, 999, "Processing", 42)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateStatusCancelSkipsMissingProducts(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, f.products, models.Product{
		Name:          "Widget",
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})

	// An order whose second line points at a product row that no longer
	// exists. Only the surviving product gets its stock back.
	order := &models.Order{
		Number: "test-order",
		UserID: 1,
		Status: models.OrderPending,
		Items: []models.OrderItem{
			{ProductID: product.ID, ProductName: "Widget", Price: decimal.NewFromFloat(10.00), Quantity: 2, SubTotal: decimal.NewFromFloat(20.00)},
			{ProductID: 999, ProductName: "Ghost", Price: decimal.NewFromFloat(1.00), Quantity: 1, SubTotal: decimal.NewFromFloat(1.00)},
		},
	}
	require.NoError(t, f.orderRepo.Create(ctx, order))

	cancelled, err := f.orders.UpdateStatus(ctx, order.ID, "Cancelled", 42)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	p, err := f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.StockQuantity)
}

func TestGetOrderByIDAuthorization(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, f.products, models.Product{
		Name:          "Widget",
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	_, err := f.carts.AddToCart(ctx, 1, product.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.CreateFromCart(ctx, 1, services.ShippingInfo{})
	require.NoError(t, err)

	_, err = f.orders.GetOrderByID(ctx, order.ID, 1, models.RoleCustomer)
	assert.NoError(t, err)

	_, err = f.orders.GetOrderByID(ctx, order.ID, 2, models.RoleCustomer)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.orders.GetOrderByID(ctx, order.ID, 2, models.RoleAdmin)
	assert.NoError(t, err)

	_, err = f.orders.GetOrderByID(ctx, 999, 1, models.RoleAdmin)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStatusFlipGuardedByCurrentStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, f.products, models.Product{
		Name:          "Widget",
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})
	_, err := f.carts.AddToCart(ctx, 1, product.ID, 3)
	require.NoError(t, err)
	order, err := f.orders.CreateFromCart(ctx, 1, services.ShippingInfo{})
	require.NoError(t, err)

	require.NoError(t, f.orderRepo.SetStatusIf(ctx, order.ID, models.OrderPending, models.OrderProcessing))

	// A cancel computed against the stale Pending read must lose; without the
	// guard two racing cancels would both restore stock.
	err = f.orderRepo.SetStatusIf(ctx, order.ID, models.OrderPending, models.OrderCancelled)
	require.ErrorIs(t, err, repositories.ErrStatusChanged)

	got, err := f.orders.GetOrderByID(ctx, order.ID, 1, models.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, got.Status)

	p, err := f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.StockQuantity, "a losing transition must not touch stock")

	err = f.orderRepo.SetStatusIf(ctx, 999, models.OrderPending, models.OrderCancelled)
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestConcurrentCheckoutNeverOversells(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, f.products, models.Product{
		Name:          "Widget",
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: 5,
		Status:        models.ProductApproved,
		IsActive:      true,
	})

	// Each cart fits on its own, but stock 5 cannot cover both.
	_, err := f.carts.AddToCart(ctx, 1, product.ID, 3)
	require.NoError(t, err)
	_, err = f.carts.AddToCart(ctx, 2, product.ID, 3)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []uint{1, 2} {
		wg.Add(1)
		go func(slot int, userID uint) {
			defer wg.Done()
			_, errs[slot] = f.orders.CreateFromCart(ctx, userID, services.ShippingInfo{})
		}(i, userID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one checkout must win")

	p, err := f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.StockQuantity)
	assert.GreaterOrEqual(t, p.StockQuantity, 0, "stock must never go negative")
}
