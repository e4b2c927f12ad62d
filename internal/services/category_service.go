package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/apperr"
)

// CategoryService handles business logic for product categories. Mutations
// are restricted to elevated actors; categories are deactivated rather than
// deleted so products keep a valid reference.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetCategories retrieves all categories.
func (s *CategoryService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

// GetCategoryByID retrieves a single category.
func (s *CategoryService) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, err
	}
	return category, nil
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, name, description string, role string) (*models.Category, error) {
	if !models.IsElevated(role) {
		return nil, apperr.Forbidden("only moderators can manage categories")
	}

	category := &models.Category{
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	log.Printf("Category created: id=%d name=%q", category.ID, category.Name)
	return category, nil
}

// UpdateCategory edits an existing category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, name, description string, active bool, role string) (*models.Category, error) {
	if !models.IsElevated(role) {
		return nil, apperr.Forbidden("only moderators can manage categories")
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, err
	}

	category.Name = name
	category.Description = description
	category.IsActive = active
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	log.Printf("Category updated: id=%d name=%q active=%v", category.ID, category.Name, category.IsActive)
	return category, nil
}

// DeactivateCategory clears a category's active flag.
func (s *CategoryService) DeactivateCategory(ctx context.Context, id uint, role string) error {
	if !models.IsElevated(role) {
		return apperr.Forbidden("only moderators can manage categories")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound("category not found")
		}
		return fmt.Errorf("failed to deactivate category %d: %w", id, err)
	}
	log.Printf("Category deactivated: id=%d", id)
	return nil
}
