package handlers

import (
	"gameserver-hub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupServerRoutes(router fiber.Router, engine *services.Engine, limiter fiber.Handler) {
	router.Post("/servers", limiter, func(c *fiber.Ctx) error {
		user, err := currentUser(c, engine.Users)
		if err != nil {
			return respondError(c, "failed to load user", err)
		}

		var req services.NewServerInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		res, err := engine.Servers.AddServer(c.UserContext(), user, req)
		if err != nil {
			return respondError(c, "failed to add server", err)
		}
		res.Toasts = toastsOrEmpty(res.Toasts)
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	router.Post("/servers/:id/ratings", limiter, func(c *fiber.Ctx) error {
		serverID := c.Params("id")
		if _, err := uuid.Parse(serverID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid server ID"})
		}

		var req struct {
			Stars   int    `json:"stars"`
			Comment string `json:"comment"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		user, err := currentUser(c, engine.Users)
		if err != nil {
			return respondError(c, "failed to load user", err)
		}

		res, err := engine.Servers.RateServer(c.UserContext(), user, serverID, req.Stars, req.Comment)
		if err != nil {
			return respondError(c, "failed to rate server", err)
		}
		res.Toasts = toastsOrEmpty(res.Toasts)
		return c.Status(fiber.StatusCreated).JSON(res)
	})
}
