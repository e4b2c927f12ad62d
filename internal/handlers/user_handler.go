package handlers

import (
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for account administration.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user administration routes. Listing accounts
// and changing status are admin operations; a user may fetch their own record.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	users := router.Group("/users", authRequired)
	users.Get("/", middleware.RequireRole(models.RoleAdmin), h.HandleGetUsers)
	users.Get("/:id", h.HandleGetUserByID)
	users.Patch("/:id/status", middleware.RequireRole(models.RoleAdmin), h.HandleSetUserStatus)
}

// HandleGetUsers lists every account.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	_, role := currentUser(c)
	users, err := h.service.GetUsers(c.Context(), role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// HandleGetUserByID retrieves a single account, self or admin only.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user ID",
		})
	}

	userID, role := currentUser(c)
	user, err := h.service.GetUserByID(c.Context(), uint(id), userID, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UserStatusRequest represents the request body for activating or
// deactivating an account.
type UserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// HandleSetUserStatus activates or deactivates an account.
func (h *UserHandler) HandleSetUserStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user ID",
		})
	}

	var req UserStatusRequest
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
	user, err := h.service.SetUserStatus(c.Context(), uint(id), *req.IsActive, userID, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
