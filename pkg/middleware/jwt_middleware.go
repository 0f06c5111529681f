package middleware

import (
	"strings"

	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected requires a valid bearer token and stores its user id in the
// request locals as "user_id".
func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") || strings.TrimPrefix(authHeader, "Bearer ") == "" {
			return unauthorized(c, "Missing Authorization bearer token")
		}

		userID, err := utils.ExtractUserIDFromHeader(authHeader)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// AuthRequired applies JWTProtected only when AUTH_REQUIRED is enabled.
func AuthRequired() fiber.Handler {
	protected := JWTProtected()
	return func(c *fiber.Ctx) error {
		if !config.App.AuthRequired {
			return c.Next()
		}
		return protected(c)
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"error":   message,
	})
}
