package handlers

import (
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. Listing all orders and changing
// status are admin operations.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	orders := router.Group("/orders", authRequired)
	orders.Get("/", middleware.RequireRole(models.RoleAdmin), h.HandleGetAllOrders)
	orders.Get("/my", h.HandleGetMyOrders)
	orders.Get("/:id", h.HandleGetOrderByID)
	orders.Post("/", h.HandleCreateOrder)
	orders.Patch("/:id/status", middleware.RequireRole(models.RoleAdmin), h.HandleUpdateOrderStatus)
}

// HandleGetAllOrders lists every order.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetMyOrders lists the caller's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	orders, err := h.service.GetUserOrders(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order, owner or admin only.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order ID",
		})
	}

	userID, role := currentUser(c)
	order, err := h.service.GetOrderByID(c.Context(), uint(id), userID, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// CreateOrderRequest represents the request body for checkout.
type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"omitempty,max=200"`
	ShippingCity    string `json:"shipping_city" validate:"omitempty,max=100"`
	ShippingState   string `json:"shipping_state" validate:"omitempty,max=50"`
	ShippingZipCode string `json:"shipping_zip_code" validate:"omitempty,max=20"`
	ShippingCountry string `json:"shipping_country" validate:"omitempty,max=100"`
	Notes           string `json:"notes" validate:"omitempty,max=500"`
}

// HandleCreateOrder converts the caller's cart into an order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
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
	order, err := h.service.CreateFromCart(c.Context(), userID, services.ShippingInfo{
		Address: req.ShippingAddress,
		City:    req.ShippingCity,
		State:   req.ShippingState,
		ZipCode: req.ShippingZipCode,
		Country: req.ShippingCountry,
		Notes:   req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdateOrderStatusRequest represents the request body for a status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus moves an order to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order ID",
		})
	}

	var req UpdateOrderStatusRequest
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
	order, err := h.service.UpdateStatus(c.Context(), uint(id), req.Status, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}
