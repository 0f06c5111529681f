package controllers

import (
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"github.com/gofiber/fiber/v2"
)

func Health(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if database.Store == nil {
		return errorResponse(c, fiber.StatusServiceUnavailable, "Database not initialized", nil)
	}
	if err := database.Store.Ping(ctx); err != nil {
		return errorResponse(c, fiber.StatusServiceUnavailable, "Database unavailable", err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
