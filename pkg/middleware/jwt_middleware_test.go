package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/", handler, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(primitive.ObjectID)
		return c.SendString(userID.Hex())
	})
	return app
}

func get(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func setSecret(t *testing.T) {
	t.Helper()
	cfg := config.Default()
	cfg.JWTSecret = "test-secret"
	config.App = cfg
}

func TestJWTProtected(t *testing.T) {
	setSecret(t)
	app := newTestApp(JWTProtected())

	if status := get(t, app, ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
	if status := get(t, app, "not-a-jwt"); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", status)
	}

	token, _, err := utils.GenerateAccessToken(primitive.NewObjectID(), "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if status := get(t, app, token); status != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", status)
	}

	// a token signed with another secret is rejected
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": primitive.NewObjectID().Hex()})
	forgedString, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if status := get(t, app, forgedString); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", status)
	}

	// a valid token without a user id is rejected
	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@example.com"})
	noUserString, err := noUser.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if status := get(t, app, noUserString); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for token without user_id, got %d", status)
	}
}

func TestJWTProtected_HeaderHandling(t *testing.T) {
	setSecret(t)
	app := newTestApp(JWTProtected())

	userID := primitive.NewObjectID()
	token, _, err := utils.GenerateAccessToken(userID, "h@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	cases := []struct {
		header  string
		status  int
		message string
	}{
		{"", http.StatusUnauthorized, "Missing Authorization bearer token"},
		{"Bearer ", http.StatusUnauthorized, "Missing Authorization bearer token"},
		{token, http.StatusUnauthorized, "Missing Authorization bearer token"},
		{"Bearer not-a-jwt", http.StatusUnauthorized, "Invalid or expired token"},
		{"Bearer " + token, http.StatusOK, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != tc.status {
			t.Fatalf("header %q: expected %d, got %d", tc.header, tc.status, resp.StatusCode)
		}
		if tc.status == http.StatusOK {
			if string(body) != userID.Hex() {
				t.Fatalf("expected user id %s in locals, got %s", userID.Hex(), body)
			}
			continue
		}
		var msg map[string]string
		if err := json.Unmarshal(body, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg["message"] != tc.message {
			t.Fatalf("header %q: expected %q, got %q", tc.header, tc.message, msg["message"])
		}
	}
}

func TestAuthRequired_Switch(t *testing.T) {
	setSecret(t)
	app := newTestApp(AuthRequired())

	if status := get(t, app, ""); status != http.StatusOK {
		t.Fatalf("expected open route when auth is not required, got %d", status)
	}

	config.App.AuthRequired = true
	if status := get(t, app, ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 when auth is required, got %d", status)
	}
}
