package utils

import (
	"testing"
	"time"

	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.JWTSecret = "test-secret"
	cfg.AccessMinutes = 15
	config.App = cfg

	id := primitive.NewObjectID()
	token, expiresIn, err := GenerateAccessToken(id, "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if expiresIn != 15*60 {
		t.Fatalf("expected 900 seconds, got %d", expiresIn)
	}

	got, err := ExtractUserIDFromHeader("Bearer " + token)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id.Hex(), got.Hex())
	}

	if _, err := ExtractUserIDFromHeader(token); err == nil {
		t.Fatalf("expected error without Bearer prefix")
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	cfg := config.Default()
	cfg.JWTSecret = "test-secret"
	config.App = cfg

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": primitive.NewObjectID().Hex(),
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	s, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(s); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestGenerateRandomToken(t *testing.T) {
	a, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := GenerateRandomToken(32)
	if len(a) != 64 || a == b {
		t.Fatalf("expected distinct 64-char hex tokens, got %q %q", a, b)
	}
}
