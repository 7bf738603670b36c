package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asad-as1/BlogBuddy/internal/cache"
	"github.com/asad-as1/BlogBuddy/internal/config"
	"github.com/asad-as1/BlogBuddy/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp builds a Fiber app backed by an isolated in-memory database.
func setupTestApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	// Tests assert against the database directly, so the cache stays off.
	cache.SetClient(nil)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	cfg := &config.Config{
		Port:      "5000",
		JWTSecret: "handler-test-secret-0123456789abcdef",
		Env:       "test",
	}

	srv := NewServerWithDeps(cfg, db, nil)

	app := fiber.New()
	srv.SetupRoutes(app)

	return app, srv, db
}

// doJSON performs a request with an optional bearer token and JSON body,
// returning the response and its decoded body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}

	return resp, decoded
}

// registerTestUser registers an account and returns its token and ID.
func registerTestUser(t *testing.T, app *fiber.App, username string) (string, uint) {
	t.Helper()

	resp, body := doJSON(t, app, fiber.MethodPost, "/user/register", "", map[string]any{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "register %s: %v", username, body)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user := body["user"].(map[string]any)
	return token, uint(user["id"].(float64))
}

// createTestPost creates a post for the token's user and returns its ID.
func createTestPost(t *testing.T, app *fiber.App, token, title string, extra map[string]any) uint {
	t.Helper()

	payload := map[string]any{
		"title":   title,
		"content": "Some content for " + title,
		"media":   map[string]any{"url": "https://cdn.example.com/img.jpg"},
	}
	for k, v := range extra {
		payload[k] = v
	}

	resp, body := doJSON(t, app, fiber.MethodPost, "/post/newPost", token, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "create post: %v", body)

	post := body["post"].(map[string]any)
	return uint(post["id"].(float64))
}

func TestHealthEndpoints(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/health/live", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "alive", body["status"])

	resp, _ = doJSON(t, app, fiber.MethodGet, "/health/ready", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/user/profile", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Authorization required", body["error"])
}

func TestAuthRequiredRejectsGarbageToken(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/user/profile", "not-a-token", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthAcceptsCookieTransport(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token, _ := registerTestUser(t, app, "cookieuser")

	req := httptest.NewRequest(fiber.MethodGet, "/user/check-auth", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token, _ := registerTestUser(t, app, "ghost")

	resp, _ := doJSON(t, app, fiber.MethodDelete, "/user/delete", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The token has not expired, but its subject is gone.
	resp, body := doJSON(t, app, fiber.MethodGet, "/user/check-auth", token, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "User no longer exists", body["error"])
}
