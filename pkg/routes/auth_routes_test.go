package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gilanghuda/corejob-backend/app/controllers"
	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func register(t *testing.T, env *testEnv, email, password string) map[string]interface{} {
	t.Helper()
	return env.object(t, http.MethodPost, "/auth/register", map[string]interface{}{
		"email":     email,
		"password":  password,
		"full_name": "Registered User",
	}, "", http.StatusCreated)
}

func TestAuth_RegisterReturnsTokens(t *testing.T) {
	env := newTestEnv(t)

	resp := register(t, env, "New@Example.com", "secret123")
	if resp["token"] == "" || resp["refresh_token"] == "" {
		t.Fatalf("expected tokens, got %v", resp)
	}
	if resp["expires_in"] != float64(config.App.AccessMinutes*60) {
		t.Fatalf("unexpected expires_in %v", resp["expires_in"])
	}
	user := resp["user"].(map[string]interface{})
	if _, ok := user["password"]; ok {
		t.Fatalf("register leaked password: %v", user)
	}
	if user["email"] != "new@example.com" {
		t.Fatalf("expected normalized email, got %v", user["email"])
	}

	env.object(t, http.MethodPost, "/auth/register", map[string]interface{}{
		"email": "new@example.com", "password": "x1234567", "full_name": "Again",
	}, "", http.StatusConflict)
}

func TestAuth_LoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "me@example.com", "secret123")

	env.object(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "me@example.com", "password": "wrong"}, "", http.StatusUnauthorized)
	env.object(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "nobody@example.com", "password": "secret123"}, "", http.StatusUnauthorized)
	env.object(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "me@example.com"}, "", http.StatusBadRequest)

	login := env.object(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "ME@example.com", "password": "secret123"}, "", http.StatusOK)
	token := login["token"].(string)

	claims, err := utils.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims["email"] != "me@example.com" || claims["jti"] == nil {
		t.Fatalf("unexpected claims %v", claims)
	}

	me := env.object(t, http.MethodGet, "/auth/me", nil, token, http.StatusOK)
	if me["email"] != "me@example.com" {
		t.Fatalf("unexpected me %v", me)
	}
	if _, ok := me["password"]; ok {
		t.Fatalf("me leaked password")
	}

	env.object(t, http.MethodGet, "/auth/me", nil, "", http.StatusUnauthorized)
	env.object(t, http.MethodGet, "/auth/me", nil, "garbage", http.StatusUnauthorized)
}

func TestAuth_RefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	resp := register(t, env, "r@example.com", "secret123")
	token := resp["token"].(string)
	refresh := resp["refresh_token"].(string)

	refreshed := env.object(t, http.MethodPost, "/auth/refresh", map[string]interface{}{"refresh_token": refresh}, "", http.StatusOK)
	if refreshed["token"] == "" {
		t.Fatalf("expected new access token")
	}

	env.object(t, http.MethodPost, "/auth/refresh", map[string]interface{}{"refresh_token": "unknown"}, "", http.StatusUnauthorized)
	env.object(t, http.MethodPost, "/auth/refresh", map[string]interface{}{}, "", http.StatusBadRequest)

	env.object(t, http.MethodPost, "/auth/logout", map[string]interface{}{"refresh_token": refresh}, "", http.StatusUnauthorized)
	env.object(t, http.MethodPost, "/auth/logout", map[string]interface{}{"refresh_token": refresh}, token, http.StatusOK)
	env.object(t, http.MethodPost, "/auth/refresh", map[string]interface{}{"refresh_token": refresh}, "", http.StatusUnauthorized)
}

func TestAuth_LogoutRevokesAllSessions(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "all@example.com", "secret123")

	first := env.object(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "all@example.com", "password": "secret123"}, "", http.StatusOK)
	second := env.object(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "all@example.com", "password": "secret123"}, "", http.StatusOK)

	env.object(t, http.MethodPost, "/auth/logout", nil, first["token"].(string), http.StatusOK)

	for _, rt := range []interface{}{first["refresh_token"], second["refresh_token"]} {
		env.object(t, http.MethodPost, "/auth/refresh", map[string]interface{}{"refresh_token": rt}, "", http.StatusUnauthorized)
	}
}

func TestAuth_LogoutRejectsMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	resp := register(t, env, "bad@example.com", "secret123")
	token := resp["token"].(string)
	refresh := resp["refresh_token"].(string)

	body := env.object(t, http.MethodPost, "/auth/logout", "{bad", token, http.StatusBadRequest)
	if body["message"] != "Invalid request body" {
		t.Fatalf("unexpected body %v", body)
	}

	env.object(t, http.MethodPost, "/auth/refresh", map[string]interface{}{"refresh_token": refresh}, "", http.StatusOK)
}

func TestAuth_GoogleSignIn(t *testing.T) {
	env := newTestEnv(t)

	orig := utils.GoogleTokenValidator
	t.Cleanup(func() { utils.GoogleTokenValidator = orig })
	utils.GoogleTokenValidator = func(ctx context.Context, idToken string) (string, error) {
		if idToken != "good-token" {
			return "", errors.New("bad token")
		}
		return "Google.User@gmail.com", nil
	}

	env.object(t, http.MethodPost, "/auth/google", map[string]interface{}{"id_token": "bad"}, "", http.StatusUnauthorized)

	first := env.object(t, http.MethodPost, "/auth/google", map[string]interface{}{"id_token": "good-token"}, "", http.StatusOK)
	user := first["user"].(map[string]interface{})
	if user["email"] != "google.user@gmail.com" || user["is_verified"] != true {
		t.Fatalf("unexpected google user %v", user)
	}

	second := env.object(t, http.MethodPost, "/auth/google", map[string]interface{}{"id_token": "good-token"}, "", http.StatusOK)
	if second["user"].(map[string]interface{})["_id"] != user["_id"] {
		t.Fatalf("expected the same account on second sign-in")
	}
	if n := len(env.list(t, "/users")); n != 1 {
		t.Fatalf("expected one user, got %d", n)
	}
}

func TestAuthRequired_ProtectsMutations(t *testing.T) {
	env := newTestEnv(t)
	config.App.AuthRequired = true

	body := env.object(t, http.MethodPost, "/categories", map[string]interface{}{"name": "Cerrada"}, "", http.StatusUnauthorized)
	if body["message"] == nil || body["error"] == nil {
		t.Fatalf("expected {message, error} body, got %v", body)
	}

	// registration stays open
	user := env.object(t, http.MethodPost, "/users", map[string]interface{}{
		"email": "open@example.com", "password": "secret123", "full_name": "Open",
	}, "", http.StatusCreated)
	env.object(t, http.MethodDelete, "/users/"+user["_id"].(string), nil, "", http.StatusUnauthorized)

	// reads stay open
	env.list(t, "/categories")

	login := env.object(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "open@example.com", "password": "secret123"}, "", http.StatusOK)
	token := login["token"].(string)

	created := env.object(t, http.MethodPost, "/categories", map[string]interface{}{"name": "Abierta"}, token, http.StatusCreated)
	env.object(t, http.MethodPut, "/categories/"+created["_id"].(string), map[string]interface{}{"icon": "x"}, token, http.StatusCreated)
	env.object(t, http.MethodDelete, "/categories/"+created["_id"].(string), nil, token, http.StatusOK)
}

func TestGeocodeRoutes_ClientBuiltAtRegistration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "corejob-registered" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"1","lon":"2","display_name":"Registered"}]`))
	}))
	defer srv.Close()

	orig := controllers.GeocodeClient
	t.Cleanup(func() { controllers.GeocodeClient = orig })

	cfg := config.Default()
	cfg.GeocoderURL = srv.URL
	cfg.GeocoderUserAgent = "corejob-registered"
	config.App = cfg

	app := fiber.New()
	RegisterGeocodeRoutes(app)
	if controllers.GeocodeClient == nil {
		t.Fatalf("expected geocode client after registration")
	}

	// later config changes do not reach the registered client
	config.App.GeocoderURL = "http://127.0.0.1:1"

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/geocode?q=anywhere", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from registered client, got %d", resp.StatusCode)
	}
}

func TestGeocodeRoutes(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search" && r.URL.Query().Get("q") == "Zona 1":
			_, _ = w.Write([]byte(`[{"lat":"14.64","lon":"-90.51","display_name":"Zona 1, Guatemala"}]`))
		case r.URL.Path == "/search" && r.URL.Query().Get("q") == "broken":
			w.WriteHeader(http.StatusInternalServerError)
		case r.URL.Path == "/search":
			_, _ = w.Write([]byte(`[]`))
		case r.URL.Path == "/reverse":
			_, _ = w.Write([]byte(`{"lat":"14.6","lon":"-90.5","display_name":"Ciudad de Guatemala"}`))
		}
	}))
	defer srv.Close()

	orig := controllers.GeocodeClient
	t.Cleanup(func() { controllers.GeocodeClient = orig })
	controllers.GeocodeClient = utils.NewGeocoder(srv.URL, "corejob-test")

	point := env.object(t, http.MethodGet, "/geocode?q=Zona+1", nil, "", http.StatusOK)
	if point["address"] != "Zona 1, Guatemala" || point["lat"] != 14.64 || point["lng"] != -90.51 {
		t.Fatalf("unexpected point %v", point)
	}

	missing := env.object(t, http.MethodGet, "/geocode?q=nowhere", nil, "", http.StatusNotFound)
	if missing["message"] != "No results for address" {
		t.Fatalf("unexpected not found body %v", missing)
	}
	env.object(t, http.MethodGet, "/geocode?q=broken", nil, "", http.StatusBadGateway)
	env.object(t, http.MethodGet, "/geocode", nil, "", http.StatusBadRequest)

	reverse := env.object(t, http.MethodGet, "/geocode/reverse?lat=14.6349&lng=-90.5069", nil, "", http.StatusOK)
	if reverse["address"] != "Ciudad de Guatemala" || reverse["lat"] != 14.6349 || reverse["lng"] != -90.5069 {
		t.Fatalf("unexpected reverse point %v", reverse)
	}
	env.object(t, http.MethodGet, "/geocode/reverse?lat=91&lng=0", nil, "", http.StatusBadRequest)
	env.object(t, http.MethodGet, "/geocode/reverse?lat=abc&lng=0", nil, "", http.StatusBadRequest)
}
