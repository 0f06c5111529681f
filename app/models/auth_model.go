package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SignIn struct {
	Email    string `json:"email" validate:"required,email,lte=255"`
	Password string `json:"password" validate:"required,lte=255"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type GoogleSignIn struct {
	IDToken string `json:"id_token" validate:"required"`
}

type RefreshToken struct {
	Base      `bson:",inline"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Token     string             `json:"token" bson:"token"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at"`
	Revoked   bool               `json:"revoked" bson:"revoked"`
}

type TokenResponse struct {
	Message      string `json:"message,omitempty"`
	Token        string `json:"token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}
