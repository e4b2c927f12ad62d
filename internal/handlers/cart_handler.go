package handlers

import (
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart. Every route acts
// on the authenticated user's own cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	cart := router.Group("/cart", authRequired)
	cart.Get("/", h.HandleGetCart)
	cart.Get("/total", h.HandleGetCartTotal)
	cart.Post("/", h.HandleAddToCart)
	cart.Put("/:id", h.HandleUpdateItem)
	cart.Delete("/:id", h.HandleRemoveItem)
	cart.Delete("/", h.HandleClearCart)
}

// HandleGetCart lists the caller's cart lines with live prices.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	items, err := h.service.GetUserCart(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// HandleGetCartTotal returns the live total of the caller's cart.
func (h *CartHandler) HandleGetCartTotal(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	total, err := h.service.CartTotal(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": total,
	})
}

// AddToCartRequest represents the request body for adding a product.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// HandleAddToCart adds a product to the caller's cart, merging with an
// existing line for the same product.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	userID, _ := currentUser(c)
	item, err := h.service.AddToCart(c.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateCartItemRequest represents the request body for changing a quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// HandleUpdateItem replaces the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart item ID",
		})
	}

	var req UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	userID, _ := currentUser(c)
	item, err := h.service.UpdateItem(c.Context(), uint(id), userID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes a single cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart item ID",
		})
	}

	userID, _ := currentUser(c)
	removed, err := h.service.RemoveItem(c.Context(), uint(id), userID)
	if err != nil {
		return respondError(c, err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Cart item not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Item removed from cart",
	})
}

// HandleClearCart empties the caller's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	if err := h.service.ClearCart(c.Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
