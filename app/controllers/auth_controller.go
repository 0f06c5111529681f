package controllers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/app/queries"
	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"github.com/gilanghuda/corejob-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserRegister creates a user through the users resource and signs them in.
func UserRegister(c *fiber.Ctx) error {
	patch, err := parsePatch(c.Body())
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, apiErr := Users.CreateDocument(ctx, patch)
	if apiErr != nil {
		return apiErr.send(c)
	}

	resp, apiErr := issueTokens(ctx, user)
	if apiErr != nil {
		return apiErr.send(c)
	}
	resp.Message = "User registered"
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func UserSignIn(c *fiber.Ctx) error {
	signIn := &models.SignIn{}
	if err := c.BodyParser(signIn); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(signIn); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid credentials payload", err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := queries.NewUserQueries().GetUserByEmail(ctx, signIn.Email)
	if errors.Is(err, database.ErrNotFound) {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", nil)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Error fetching User", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(signIn.Password)); err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", nil)
	}

	resp, apiErr := issueTokens(ctx, user)
	if apiErr != nil {
		return apiErr.send(c)
	}
	resp.Message = "Sign in successful"
	return c.Status(fiber.StatusOK).JSON(resp)
}

func UserSignInWithGoogle(c *fiber.Ctx) error {
	payload := &models.GoogleSignIn{}
	if err := c.BodyParser(payload); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(payload); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	email, err := utils.GoogleTokenValidator(ctx, payload.IDToken)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid Google token", err)
	}

	userQueries := queries.NewUserQueries()
	user, err := userQueries.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		user, err = createGoogleUser(ctx, userQueries, email)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create user from Google account", err)
	}

	resp, apiErr := issueTokens(ctx, user)
	if apiErr != nil {
		return apiErr.send(c)
	}
	resp.Message = "Sign in successful"
	return c.Status(fiber.StatusOK).JSON(resp)
}

// createGoogleUser stores a verified account with an unusable random password.
func createGoogleUser(ctx context.Context, q *queries.UserQueries, email string) (*models.User, error) {
	secret, err := utils.GenerateRandomToken(32)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      queries.NormalizeEmail(email),
		Password:   string(hashed),
		FullName:   strings.Split(email, "@")[0],
		IsVerified: true,
	}
	user.ID = primitive.NewObjectID()
	user.Touch(time.Now().UTC())

	if err := q.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func RefreshToken(c *fiber.Ctx) error {
	payload := &models.RefreshRequest{}
	if err := c.BodyParser(payload); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(payload); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	rt, err := queries.NewRefreshTokenQueries().GetRefreshTokenByToken(ctx, payload.RefreshToken)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", nil)
	}
	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		return errorResponse(c, fiber.StatusUnauthorized, "Refresh token expired or revoked", nil)
	}

	user, err := queries.NewUserQueries().GetByID(ctx, rt.UserID)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found", nil)
	}

	tokenString, expiresIn, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to generate access token", err)
	}

	return c.Status(fiber.StatusOK).JSON(models.TokenResponse{Token: tokenString, ExpiresIn: expiresIn})
}

func UserLogout(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(primitive.ObjectID)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid token payload", nil)
	}

	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{}
	if len(bytes.TrimSpace(c.Body())) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	rtQueries := queries.NewRefreshTokenQueries()
	if body.RefreshToken != "" {
		rt, err := rtQueries.GetRefreshTokenByToken(ctx, body.RefreshToken)
		if err != nil || rt.UserID != userID {
			return errorResponse(c, fiber.StatusNotFound, "Refresh token not found", nil)
		}
		if err := rtQueries.RevokeRefreshTokenByToken(ctx, body.RefreshToken); err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to revoke refresh token", err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Refresh token revoked"})
	}

	if err := rtQueries.RevokeRefreshTokensByUser(ctx, userID); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to revoke refresh tokens for user", err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out"})
}

func issueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, *apiError) {
	tokenString, expiresIn, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, newAPIError(fiber.StatusInternalServerError, "Failed to generate token", err)
	}

	rtStr, err := utils.GenerateRandomToken(32)
	if err != nil {
		return nil, newAPIError(fiber.StatusInternalServerError, "Failed to generate refresh token", err)
	}

	expiresAt := time.Now().UTC().Add(time.Duration(config.App.RefreshHours) * time.Hour)
	if _, err := queries.NewRefreshTokenQueries().CreateRefreshToken(ctx, user.ID, rtStr, expiresAt); err != nil {
		return nil, newAPIError(fiber.StatusInternalServerError, "Failed to store refresh token", err)
	}

	out := *user
	presentUser(&out)
	return &models.TokenResponse{
		Token:        tokenString,
		ExpiresIn:    expiresIn,
		RefreshToken: rtStr,
		User:         &out,
	}, nil
}
