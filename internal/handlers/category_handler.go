package handlers

import (
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for product categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the category routes. Reads are public; mutations
// are admin only.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	categories := router.Group("/categories")
	categories.Get("/", h.HandleGetCategories)
	categories.Get("/:id", h.HandleGetCategoryByID)

	admin := categories.Group("", authRequired, middleware.RequireRole(models.RoleAdmin))
	admin.Post("/", h.HandleCreateCategory)
	admin.Put("/:id", h.HandleUpdateCategory)
	admin.Delete("/:id", h.HandleDeactivateCategory)
}

// HandleGetCategories lists all categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// HandleGetCategoryByID retrieves a single category.
func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category ID",
		})
	}
	category, err := h.service.GetCategoryByID(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

// CategoryRequest represents the request body for creating or updating a
// category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool  `json:"is_active"`
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	_, role := currentUser(c)
	category, err := h.service.CreateCategory(c.Context(), req.Name, req.Description, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory edits an existing category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category ID",
		})
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	_, role := currentUser(c)
	category, err := h.service.UpdateCategory(c.Context(), uint(id), req.Name, req.Description, active, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

// HandleDeactivateCategory clears a category's active flag.
func (h *CategoryHandler) HandleDeactivateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category ID",
		})
	}

	_, role := currentUser(c)
	if err := h.service.DeactivateCategory(c.Context(), uint(id), role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Category deactivated",
	})
}
