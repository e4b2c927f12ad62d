package handlers

import (
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for the catalog and moderation.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Browsing approved products is
// public; everything else requires authentication, with moderation and
// catalog-wide listings restricted to admins.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", h.HandleGetApprovedProducts)

	products.Get("/all", authRequired, middleware.RequireRole(models.RoleAdmin), h.HandleGetAllProducts)
	products.Get("/pending", authRequired, middleware.RequireRole(models.RoleAdmin), h.HandleGetPendingProducts)
	products.Get("/mine", authRequired, middleware.RequireRole(models.RoleAdmin, models.RoleSeller), h.HandleGetMyProducts)
	products.Get("/:id", h.HandleGetProductByID)

	products.Post("/", authRequired, middleware.RequireRole(models.RoleAdmin, models.RoleSeller), h.HandleCreateProduct)
	products.Put("/:id", authRequired, middleware.RequireRole(models.RoleAdmin, models.RoleSeller), h.HandleUpdateProduct)
	products.Delete("/:id", authRequired, middleware.RequireRole(models.RoleAdmin, models.RoleSeller), h.HandleDeleteProduct)
	products.Patch("/:id/approval", authRequired, middleware.RequireRole(models.RoleAdmin), h.HandleModerateProduct)
}

// ProductRequest represents the request body for creating or updating a product.
type ProductRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=200"`
	Description   string  `json:"description" validate:"omitempty,max=2000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	ImageURL      string  `json:"image_url" validate:"omitempty,max=500"`
	CategoryID    uint    `json:"category_id" validate:"required"`
}

func (r *ProductRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         decimal.NewFromFloat(r.Price),
		StockQuantity: r.StockQuantity,
		ImageURL:      r.ImageURL,
		CategoryID:    r.CategoryID,
	}
}

// HandleGetApprovedProducts lists the purchasable products.
func (h *ProductHandler) HandleGetApprovedProducts(c *fiber.Ctx) error {
	products, err := h.service.GetApprovedProducts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetAllProducts lists every product regardless of status.
func (h *ProductHandler) HandleGetAllProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetPendingProducts lists the products awaiting moderation.
func (h *ProductHandler) HandleGetPendingProducts(c *fiber.Ctx) error {
	products, err := h.service.GetPendingProducts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetMyProducts lists the caller's own products.
func (h *ProductHandler) HandleGetMyProducts(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	products, err := h.service.GetProductsBySeller(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}
	product, err := h.service.GetProductByID(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	userID, role := currentUser(c)
	product, err := h.service.CreateProduct(c.Context(), req.toInput(), userID, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct edits an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	userID, role := currentUser(c)
	product, err := h.service.UpdateProduct(c.Context(), uint(id), req.toInput(), userID, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	userID, role := currentUser(c)
	if err := h.service.DeleteProduct(c.Context(), uint(id), userID, role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// ModerationRequest represents the request body for approving or rejecting a
// pending product.
type ModerationRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// HandleModerateProduct approves or rejects a pending product.
func (h *ProductHandler) HandleModerateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	var req ModerationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	userID, role := currentUser(c)
	product, err := h.service.ModerateProduct(c.Context(), uint(id), *req.Approved, userID, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}
