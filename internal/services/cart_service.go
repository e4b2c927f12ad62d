package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/apperr"

	"github.com/shopspring/decimal"
)

// CartService handles business logic for shopping carts. The cart reads the
// catalog for price and stock but never mutates it; prices shown in the cart
// are always the live catalog prices.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddToCart adds quantity of a product to the user's cart. A second add of
// the same product merges into the existing line; the merged quantity is
// re-validated against current stock and left unchanged if it does not fit.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, apperr.InvalidState("quantity must be a positive integer")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	if product.Status != models.ProductApproved {
		return nil, apperr.InvalidState("product is not available for purchase")
	}
	if !product.IsActive {
		return nil, apperr.InvalidState("product is not active")
	}
	if product.StockQuantity < quantity {
		return nil, apperr.CapacityExceeded("insufficient stock, available: %d", product.StockQuantity)
	}

	existing, err := s.cartRepo.GetByUserAndProduct(ctx, userID, productID)
	switch {
	case err == nil:
		newQuantity := existing.Quantity + quantity
		if product.StockQuantity < newQuantity {
			return nil, apperr.CapacityExceeded("insufficient stock, available: %d, requested: %d",
				product.StockQuantity, newQuantity)
		}
		existing.Quantity = newQuantity
		if err := s.cartRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
		existing.Product = product
		log.Printf("Cart line merged: user=%d product=%d quantity=%d", userID, productID, newQuantity)
		return existing, nil
	case errors.Is(err, repositories.ErrNotFound):
		item := &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create cart item: %w", err)
		}
		item.Product = product
		log.Printf("Cart line created: user=%d product=%d quantity=%d", userID, productID, quantity)
		return item, nil
	default:
		return nil, fmt.Errorf("failed to load cart line: %w", err)
	}
}

// UpdateItem replaces the quantity of an existing cart line.
func (s *CartService) UpdateItem(ctx context.Context, itemID, userID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, apperr.InvalidState("quantity must be a positive integer")
	}

	item, err := s.cartRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("cart item not found")
		}
		return nil, fmt.Errorf("failed to load cart item %d: %w", itemID, err)
	}
	if item.UserID != userID {
		return nil, apperr.Forbidden("you can only update your own cart items")
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// A vanished product can cover no quantity at all.
			return nil, apperr.CapacityExceeded("insufficient stock, available: 0")
		}
		return nil, fmt.Errorf("failed to load product %d: %w", item.ProductID, err)
	}
	if product.StockQuantity < quantity {
		return nil, apperr.CapacityExceeded("insufficient stock, available: %d", product.StockQuantity)
	}

	item.Quantity = quantity
	if err := s.cartRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	item.Product = product
	return item, nil
}

// RemoveItem deletes a single cart line. It reports whether a line was
// actually removed; removing an absent line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, itemID, userID uint) (bool, error) {
	item, err := s.cartRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load cart item %d: %w", itemID, err)
	}
	if item.UserID != userID {
		return false, apperr.Forbidden("you can only remove your own cart items")
	}

	if err := s.cartRepo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete cart item %d: %w", itemID, err)
	}
	log.Printf("Cart line removed: user=%d item=%d", userID, itemID)
	return true, nil
}

// ClearCart removes every line in the user's cart. A no-op when empty.
func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	if err := s.cartRepo.ClearUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart for user %d: %w", userID, err)
	}
	log.Printf("Cart cleared: user=%d", userID)
	return nil
}

// GetUserCart returns the user's cart lines with live product data attached.
func (s *CartService) GetUserCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.cartRepo.GetByUser(ctx, userID)
}

// CartTotal sums the live subtotals of the user's cart lines.
func (s *CartService) CartTotal(ctx context.Context, userID uint) (decimal.Decimal, error) {
	items, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].SubTotal())
	}
	return total, nil
}
