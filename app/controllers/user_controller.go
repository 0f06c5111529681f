package controllers

import (
	"context"
	"errors"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/app/queries"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// beforeSaveUser rejects a taken email and hashes a submitted password.
// The unique index on email still guards the window between the check and
// the write.
func beforeSaveUser(ctx context.Context, user *models.User, patch Patch, creating bool) error {
	user.Email = queries.NormalizeEmail(user.Email)

	if creating || patch.HasValue("email") {
		existing, err := queries.NewUserQueries().GetUserByEmail(ctx, user.Email)
		if err == nil && existing.ID != user.ID {
			return newAPIError(fiber.StatusConflict, "Email already exists", nil)
		}
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}
	}

	if creating || patch.HasValue("password") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return newAPIError(fiber.StatusInternalServerError, "Failed to hash password", err)
		}
		user.Password = string(hashedPassword)
	}
	return nil
}

func presentUser(user *models.User) {
	user.Password = ""
}

func UserProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(primitive.ObjectID)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid token payload", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := queries.NewUserQueries().GetByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Error fetching User", err)
	}

	presentUser(user)
	return c.Status(fiber.StatusOK).JSON(user)
}
