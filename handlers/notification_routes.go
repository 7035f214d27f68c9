package handlers

import (
	"gameserver-hub/middleware"
	"gameserver-hub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SetupNotificationStream registers the SSE endpoint. It authenticates from query params,
// so it must be registered before the header-based user context group.
func SetupNotificationStream(app *fiber.App, notifications *services.NotificationService, validator middleware.TokenValidator) {
	app.Get("/notifications/stream", middleware.SSEAuthMiddleware(validator), notifications.StreamNotificationsSSE)
}

func SetupNotificationRoutes(router fiber.Router, notifications *services.NotificationService) {
	router.Get("/notifications", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		list, err := notifications.List(c.UserContext(), userID, c.QueryInt("limit", services.DefaultNotificationLimit))
		if err != nil {
			return respondError(c, "failed to load notifications", err)
		}
		return c.JSON(list)
	})

	router.Get("/notifications/counts", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		counts, err := notifications.Counts(c.UserContext(), userID)
		if err != nil {
			return respondError(c, "failed to count notifications", err)
		}
		return c.JSON(counts)
	})

	// registered before /:id/read so "read-all" is not taken for an id
	router.Patch("/notifications/read-all", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		n, err := notifications.MarkAllRead(c.UserContext(), userID)
		if err != nil {
			return respondError(c, "failed to mark notifications read", err)
		}
		return c.JSON(fiber.Map{"updated": n})
	})

	router.Patch("/notifications/:id/read", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
		}
		if err := notifications.MarkRead(c.UserContext(), userID, id); err != nil {
			return respondError(c, "failed to mark notification read", err)
		}
		return c.JSON(fiber.Map{"message": "Notification marked as read"})
	})
}
