package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/apperr"

	"github.com/shopspring/decimal"
)

// ProductInput carries the caller-editable fields of a product.
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	ImageURL      string
	CategoryID    uint
}

// ProductService handles business logic for the catalog and the moderation
// workflow. All role and ownership decisions go through models.IsElevated and
// a single ownership comparison.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	publisher    EventPublisher
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
	}
}

// GetAllProducts retrieves every product regardless of status.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetAll(ctx)
}

// GetApprovedProducts retrieves the purchasable products.
func (s *ProductService) GetApprovedProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetApproved(ctx)
}

// GetPendingProducts retrieves the products awaiting moderation.
func (s *ProductService) GetPendingProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetPending(ctx)
}

// GetProductsBySeller retrieves the products created by the given user.
func (s *ProductService) GetProductsBySeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	return s.productRepo.GetBySeller(ctx, sellerID)
}

// GetProductByID retrieves a single product.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct creates a catalog entry. Products created by an elevated
// actor are approved immediately; everything else starts Pending.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput, actorID uint, role string) (*models.Product, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:            in.Name,
		Description:     in.Description,
		Price:           in.Price,
		StockQuantity:   in.StockQuantity,
		ImageURL:        in.ImageURL,
		CategoryID:      in.CategoryID,
		CreatedByUserID: actorID,
		Status:          models.ProductPending,
		IsActive:        true,
	}
	if models.IsElevated(role) {
		now := time.Now()
		product.Status = models.ProductApproved
		product.ApprovedByUserID = &actorID
		product.ApprovedAt = &now
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	log.Printf("Product created: id=%d name=%q status=%s by user=%d", product.ID, product.Name, product.Status, actorID)
	return product, nil
}

// UpdateProduct edits a product. A non-elevated owner editing a previously
// approved product sends it back to moderation: status resets to Pending and
// the approval metadata is cleared.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, in ProductInput, actorID uint, role string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	if !models.IsElevated(role) && product.CreatedByUserID != actorID {
		return nil, apperr.Forbidden("you can only update your own products")
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	if !models.IsElevated(role) && product.Status == models.ProductApproved {
		product.Status = models.ProductPending
		product.ApprovedByUserID = nil
		product.ApprovedAt = nil
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.StockQuantity = in.StockQuantity
	product.ImageURL = in.ImageURL
	product.CategoryID = in.CategoryID

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	log.Printf("Product updated: id=%d name=%q status=%s by user=%d", product.ID, product.Name, product.Status, actorID)
	return product, nil
}

// DeleteProduct soft-deletes a product by clearing its active flag. Status is
// untouched and the row survives for historical order references.
func (s *ProductService) DeleteProduct(ctx context.Context, id, actorID uint, role string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound("product not found")
		}
		return err
	}
	if !models.IsElevated(role) && product.CreatedByUserID != actorID {
		return apperr.Forbidden("you can only delete your own products")
	}

	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	log.Printf("Product deleted: id=%d by user=%d", id, actorID)
	return nil
}

// ModerateProduct approves or rejects a pending product. Only pending
// products can be moderated, and only by an elevated actor.
func (s *ProductService) ModerateProduct(ctx context.Context, id uint, approve bool, actorID uint, role string) (*models.Product, error) {
	if !models.IsElevated(role) {
		return nil, apperr.Forbidden("only moderators can approve or reject products")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}

	target := models.ProductApproved
	if !approve {
		target = models.ProductRejected
	}
	if !product.Status.CanTransitionTo(target) {
		return nil, apperr.InvalidState("only pending products can be approved or rejected")
	}

	now := time.Now()
	product.Status = target
	product.ApprovedByUserID = &actorID
	product.ApprovedAt = &now

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to moderate product %d: %w", id, err)
	}
	log.Printf("Product moderated: id=%d status=%s by user=%d", product.ID, product.Status, actorID)

	s.publishModerated(product)
	return product, nil
}

func (s *ProductService) checkCategory(ctx context.Context, categoryID uint) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.InvalidState("invalid or inactive product category")
		}
		return fmt.Errorf("failed to load category %d: %w", categoryID, err)
	}
	if !category.IsActive {
		return apperr.InvalidState("invalid or inactive product category")
	}
	return nil
}

func (s *ProductService) publishModerated(product *models.Product) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]any{
		"product_id": product.ID,
		"name":       product.Name,
		"status":     product.Status,
	})
	if err != nil {
		log.Printf("Failed to marshal product moderated event: %v", err)
		return
	}
	if err := s.publisher.Publish(EventExchange, EventProductModerated, body); err != nil {
		log.Printf("Warning: failed to publish moderation event for product %d: %v", product.ID, err)
	}
}
