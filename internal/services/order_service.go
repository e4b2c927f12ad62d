package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingInfo carries the optional shipping fields captured at checkout.
type ShippingInfo struct {
	Address string
	City    string
	State   string
	ZipCode string
	Country string
	Notes   string
}

// OrderService handles business logic for orders. It is the only component
// that mutates product stock: decrement when an order is created, restore
// when an order is cancelled for the first time. Both happen inside one
// atomic unit of work, so a failure leaves no partial stock drift behind.
type OrderService struct {
	orderRepo repositories.OrderRepository
	cartRepo  repositories.CartRepository
	atomic    repositories.Atomic
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, atomic repositories.Atomic, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		atomic:    atomic,
		publisher: publisher,
	}
}

// GetAllOrders retrieves all orders. Callers gate this to elevated roles.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetUserOrders retrieves the orders placed by a user.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.orderRepo.GetByUser(ctx, userID)
}

// GetOrderByID retrieves a single order. A non-elevated requester may only
// view their own orders.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID, requesterID uint, role string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}
	if !models.IsElevated(role) && order.UserID != requesterID {
		return nil, apperr.Forbidden("you can only view your own orders")
	}
	return order, nil
}

// CreateFromCart converts the user's cart into an order. Inside one unit of
// work it re-validates every line against the live catalog, freezes name and
// price into order items, decrements stock per product and clears the cart.
// Any single-line failure aborts the whole operation with nothing persisted.
func (s *OrderService) CreateFromCart(ctx context.Context, userID uint, info ShippingInfo) (*models.Order, error) {
	var created *models.Order

	err := s.atomic.Transact(ctx, func(r repositories.Repos) error {
		lines, err := r.Carts.GetByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load cart for user %d: %w", userID, err)
		}
		if len(lines) == 0 {
			return apperr.InvalidState("your cart is empty, cannot create order")
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))

		for _, line := range lines {
			product, err := r.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return apperr.InvalidState("product %d is no longer available", line.ProductID)
				}
				return fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
			}
			if !product.IsActive {
				return apperr.InvalidState("product '%s' is no longer available", product.Name)
			}
			if product.Status != models.ProductApproved {
				return apperr.InvalidState("product '%s' is not approved for purchase", product.Name)
			}
			if product.StockQuantity < line.Quantity {
				return apperr.InvalidState("insufficient stock for '%s', available: %d, requested: %d",
					product.Name, product.StockQuantity, line.Quantity)
			}

			subTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Quantity:    line.Quantity,
				SubTotal:    subTotal,
			})
			total = total.Add(subTotal)

			// Conditional decrement: a concurrent checkout that got here
			// first makes this fail instead of driving stock negative.
			if err := r.Products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return apperr.InvalidState("insufficient stock for '%s'", product.Name)
				}
				return fmt.Errorf("failed to decrement stock for product %d: %w", product.ID, err)
			}
		}

		order := &models.Order{
			Number:          uuid.New().String(),
			UserID:          userID,
			Status:          models.OrderPending,
			TotalAmount:     total,
			ShippingAddress: info.Address,
			ShippingCity:    info.City,
			ShippingState:   info.State,
			ShippingZipCode: info.ZipCode,
			ShippingCountry: info.Country,
			Notes:           info.Notes,
			Items:           items,
		}
		if err := r.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := r.Carts.ClearUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear cart for user %d: %w", userID, err)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Order created: id=%d number=%s user=%d total=%s", created.ID, created.Number, userID, created.TotalAmount)
	s.publishOrderEvent(EventOrderCreated, created)
	return created, nil
}

// UpdateStatus moves an order to a new status. Cancelled and Delivered are
// terminal: once reached, only a self-transition is accepted and it is a
// no-op. The first transition into Cancelled restores each line's quantity to
// its product's stock within the same unit of work; lines whose product row
// no longer exists are skipped.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string, actorID uint) (*models.Order, error) {
	newStatus, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.InvalidState("invalid order status %q, valid statuses: %s, %s, %s, %s, %s",
			status, models.OrderPending, models.OrderProcessing, models.OrderShipped, models.OrderDelivered, models.OrderCancelled)
	}

	var updated *models.Order
	var cancelled bool

	err := s.atomic.Transact(ctx, func(r repositories.Repos) error {
		order, err := r.Orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperr.NotFound("order not found")
			}
			return fmt.Errorf("failed to load order %d: %w", orderID, err)
		}

		if !order.Status.CanTransitionTo(newStatus) {
			return apperr.InvalidState("cannot change status of a %s order", strings.ToLower(order.Status.String()))
		}
		if order.Status.IsTerminal() && order.Status == newStatus {
			// Repeating a terminal status is a no-op, and in particular must
			// never restore stock twice.
			updated = order
			return nil
		}

		// Conditional flip: a concurrent transition that committed between
		// the read above and this update makes it fail rather than letting
		// two racing cancels both restore stock.
		if err := r.Orders.SetStatusIf(ctx, orderID, order.Status, newStatus); err != nil {
			switch {
			case errors.Is(err, repositories.ErrStatusChanged):
				return apperr.InvalidState("order status changed concurrently, please retry")
			case errors.Is(err, repositories.ErrNotFound):
				return apperr.NotFound("order not found")
			}
			return fmt.Errorf("failed to update order %d: %w", orderID, err)
		}

		cancelled = newStatus == models.OrderCancelled && order.Status != models.OrderCancelled
		if cancelled {
			for _, item := range order.Items {
				if err := r.Products.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
					if errors.Is(err, repositories.ErrNotFound) {
						// Preserved behaviour: a hard-deleted product loses
						// its restored stock. The catalog only soft-deletes,
						// so this indicates external interference.
						log.Printf("Warning: restock skipped for order %d, product %d no longer exists", orderID, item.ProductID)
						continue
					}
					return fmt.Errorf("failed to restore stock for product %d: %w", item.ProductID, err)
				}
			}
		}

		order.Status = newStatus
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Order status updated: id=%d status=%s by user=%d", updated.ID, updated.Status, actorID)
	if cancelled {
		s.publishOrderEvent(EventOrderCancelled, updated)
	}
	return updated, nil
}

func (s *OrderService) publishOrderEvent(routingKey string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]any{
		"order_id": order.ID,
		"number":   order.Number,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.TotalAmount,
	})
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.publisher.Publish(EventExchange, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %d: %v", routingKey, order.ID, err)
	}
}
