package handlers

import (
	"gameserver-hub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupStoreRoutes(router fiber.Router, engine *services.Engine, limiter fiber.Handler) {
	router.Post("/store/items/:id/purchase", limiter, func(c *fiber.Ctx) error {
		itemID := c.Params("id")
		if _, err := uuid.Parse(itemID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
		}

		user, err := currentUser(c, engine.Users)
		if err != nil {
			return respondError(c, "failed to load user", err)
		}

		res, err := engine.Store.Purchase(c.UserContext(), user.ID, itemID)
		if err != nil {
			return respondError(c, "purchase failed", err)
		}
		res.Toasts = toastsOrEmpty(res.Toasts)
		return c.Status(fiber.StatusCreated).JSON(res)
	})
}
