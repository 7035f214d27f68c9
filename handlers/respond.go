package handlers

import (
	"errors"
	"log"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrRewardNotClaimable),
		errors.Is(err, services.ErrAlreadyRated),
		errors.Is(err, services.ErrItemUnavailable):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInsufficientCoins):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ [HTTP] %s %s: %s: %v", c.Method(), c.Path(), msg, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}

// currentUser loads (or first creates) the user the gateway authenticated.
func currentUser(c *fiber.Ctx, users *services.UserService) (*models.User, error) {
	userID, _ := c.Locals("user_id").(string)
	return users.EnsureUser(c.UserContext(), userID)
}

func toastsOrEmpty(t []models.Toast) []models.Toast {
	if t == nil {
		return []models.Toast{}
	}
	return t
}
