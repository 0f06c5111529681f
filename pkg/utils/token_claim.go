package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateAccessToken signs an HS256 token for the user and returns it with
// its lifetime in seconds.
func GenerateAccessToken(userID primitive.ObjectID, email string) (string, int, error) {
	secret := config.App.JWTSecret
	if secret == "" {
		return "", 0, errors.New("JWT secret not set")
	}

	now := time.Now()
	lifetime := time.Duration(config.App.AccessMinutes) * time.Minute
	claims := jwt.MapClaims{
		"user_id": userID.Hex(),
		"email":   email,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, int(lifetime.Seconds()), nil
}

func ParseAccessToken(tokenString string) (jwt.MapClaims, error) {
	secret := config.App.JWTSecret
	if secret == "" {
		return nil, errors.New("JWT secret not set")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func UserIDFromClaims(claims jwt.MapClaims) (primitive.ObjectID, error) {
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid token payload")
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid user id in token")
	}
	return userID, nil
}

// ExtractUserIDFromHeader parses Authorization header (Bearer <token>) and returns user_id from JWT claims.
func ExtractUserIDFromHeader(authHeader string) (primitive.ObjectID, error) {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return primitive.NilObjectID, errors.New("missing or invalid Authorization header")
	}

	claims, err := ParseAccessToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return primitive.NilObjectID, err
	}
	return UserIDFromClaims(claims)
}
