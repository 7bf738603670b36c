package server

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app, _, _ := setupTestApp(t)

	t.Run("success", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/user/register", "", map[string]any{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "password123",
			"name":     "Alice",
		})

		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.NotEmpty(t, body["token"])

		user := body["user"].(map[string]any)
		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "user", user["role"])
		_, hasPassword := user["password"]
		assert.False(t, hasPassword, "password must never be serialized")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/user/register", "", map[string]any{
			"username": "alice2",
			"email":    "alice@example.com",
			"password": "password123",
		})

		require.Equal(t, fiber.StatusConflict, resp.StatusCode)
		assert.Equal(t, "User already exists", body["error"])
	})

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing username", map[string]any{"email": "x@example.com", "password": "password123"}},
		{"missing email", map[string]any{"username": "bob", "password": "password123"}},
		{"missing password", map[string]any{"username": "bob", "email": "x@example.com"}},
		{"invalid email", map[string]any{"username": "bob", "email": "not-an-email", "password": "password123"}},
		{"short password", map[string]any{"username": "bob", "email": "x@example.com", "password": "short"}},
		{"bad username characters", map[string]any{"username": "bob!!", "email": "x@example.com", "password": "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, fiber.MethodPost, "/user/register", "", tt.payload)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestLogin(t *testing.T) {
	app, _, _ := setupTestApp(t)
	registerTestUser(t, app, "carol")

	t.Run("success", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/user/login", "", map[string]any{
			"username": "carol",
			"password": "password123",
		})

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/user/login", "", map[string]any{
			"username": "carol",
			"password": "wrongpassword",
		})

		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("unknown username is indistinguishable", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/user/login", "", map[string]any{
			"username": "nobody",
			"password": "password123",
		})

		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", body["error"])
	})
}

func TestCheckAuth(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token, id := registerTestUser(t, app, "dave")

	resp, body := doJSON(t, app, fiber.MethodGet, "/user/check-auth", token, nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["authenticated"])

	user := body["user"].(map[string]any)
	assert.Equal(t, float64(id), user["id"])
	assert.Equal(t, "dave", user["username"])
}

func TestLogoutClearsCookie(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/user/logout", "", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out successfully", body["message"])

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == "token" && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "token cookie should be expired")
}
