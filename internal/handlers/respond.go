package handlers

import (
	"fmt"
	"log"

	"pasar/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to an HTTP response. Business-rule
// violations carry an apperr kind; anything else is an internal fault.
func respondError(c *fiber.Ctx, err error) error {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindForbidden:
		status = fiber.StatusForbidden
	case apperr.KindInvalidState:
		status = fiber.StatusBadRequest
	case apperr.KindCapacityExceeded:
		status = fiber.StatusConflict
	default:
		log.Printf("Internal error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// respondValidationError formats validator failures the same way for every
// handler.
func respondValidationError(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// currentUser pulls the authenticated identity out of the request locals set
// by the auth middleware.
func currentUser(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals("user_id").(uint)
	role, _ := c.Locals("role").(string)
	return userID, role
}
