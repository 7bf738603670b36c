package server

import (
	"fmt"
	"testing"

	"github.com/asad-as1/BlogBuddy/internal/cache"
	"github.com/asad-as1/BlogBuddy/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token, _ := registerTestUser(t, app, "alice")
	createTestPost(t, app, token, "Mine", nil)

	resp, body := doJSON(t, app, fiber.MethodGet, "/user/profile", token, nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Len(t, user["posts"].([]any), 1)
}

func TestGetProfileByUsername(t *testing.T) {
	app, _, _ := setupTestApp(t)
	aliceToken, _ := registerTestUser(t, app, "alice")
	bobToken, _ := registerTestUser(t, app, "bob")

	t.Run("own profile", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/user/profile/alice", aliceToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["isOwnProfile"])
	})

	t.Run("someone else's profile", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/user/profile/alice", bobToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["isOwnProfile"])
		assert.Equal(t, "alice", body["user"].(map[string]any)["username"])
	})

	t.Run("unknown username", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodGet, "/user/profile/nobody", aliceToken, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestGetUserByID(t *testing.T) {
	app, _, _ := setupTestApp(t)
	_, aliceID := registerTestUser(t, app, "alice")

	t.Run("resolves public fields", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/user/getUserById", "", map[string]any{
			"author": aliceID,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		user := body["user"].(map[string]any)
		assert.Equal(t, "alice", user["username"])
		_, hasEmail := user["email"]
		assert.False(t, hasEmail, "email is not public")
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodPost, "/user/getUserById", "", map[string]any{
			"author": 99999,
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing id", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodPost, "/user/getUserById", "", map[string]any{})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateProfile(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token, _ := registerTestUser(t, app, "alice")

	t.Run("updates fields in place", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPut, "/user/profile", token, map[string]any{
			"name": "Alice A.",
			"bio":  "I write things",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		user := body["user"].(map[string]any)
		assert.Equal(t, "Alice A.", user["name"])
		assert.Equal(t, "I write things", user["bio"])
		assert.Equal(t, "alice", user["username"], "unset fields are untouched")
	})

	t.Run("rejects invalid username", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodPut, "/user/profile", token, map[string]any{
			"username": "a",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateProfileKeepsPasswordWithCacheActive(t *testing.T) {
	app, _, db := setupTestApp(t)

	// The cached user representation drops the password hash; an update must
	// not write that lossy copy back.
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	token, id := registerTestUser(t, app, "alice")

	// Warm the user cache; the auth middleware resolves through it.
	resp, _ := doJSON(t, app, fiber.MethodGet, "/user/check-auth", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodPut, "/user/profile", token, map[string]any{
		"bio": "updated with the cache warm",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "updated with the cache warm", body["user"].(map[string]any)["bio"])

	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	assert.NotEmpty(t, user.Password, "the stored hash must survive profile updates")

	resp, _ = doJSON(t, app, fiber.MethodPost, "/user/login", "", map[string]any{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestFavourites(t *testing.T) {
	app, _, _ := setupTestApp(t)
	aliceToken, _ := registerTestUser(t, app, "alice")
	bobToken, _ := registerTestUser(t, app, "bob")
	postID := createTestPost(t, app, aliceToken, "Bookmarkable", nil)

	addPath := fmt.Sprintf("/user/favourites/%d", postID)
	removePath := fmt.Sprintf("/user/removeFavourites/%d", postID)
	checkPath := fmt.Sprintf("/user/favourites/check/%d", postID)

	resp, _ := doJSON(t, app, fiber.MethodGet, addPath, bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Favouriting twice conflicts; the list stays a set.
	resp, body := doJSON(t, app, fiber.MethodGet, addPath, bobToken, nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Post is already in favourites", body["error"])

	resp, body = doJSON(t, app, fiber.MethodGet, checkPath, bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["isFavourite"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/user/favourites", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	favourites := body["favourites"].([]any)
	require.Len(t, favourites, 1)
	assert.Equal(t, "Bookmarkable", favourites[0].(map[string]any)["title"])

	// Favourites are per-user.
	_, aliceBody := doJSON(t, app, fiber.MethodGet, "/user/favourites", aliceToken, nil)
	assert.Empty(t, aliceBody["favourites"])

	resp, _ = doJSON(t, app, fiber.MethodGet, removePath, bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Removing an absent favourite conflicts.
	resp, body = doJSON(t, app, fiber.MethodGet, removePath, bobToken, nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Post is not in favourites", body["error"])

	t.Run("favouriting a missing post", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodGet, "/user/favourites/99999", bobToken, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestSearchUsers(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token, _ := registerTestUser(t, app, "alice")
	registerTestUser(t, app, "alicia")
	registerTestUser(t, app, "bob")

	t.Run("matches username substring", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/user/search?query=ali", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Len(t, body["users"].([]any), 2)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/user/search?query=", token, nil)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Search query is required", body["error"])
	})
}

func TestDeleteAccountCascade(t *testing.T) {
	app, _, db := setupTestApp(t)
	aliceToken, aliceID := registerTestUser(t, app, "alice")
	bobToken, bobID := registerTestUser(t, app, "bob")

	alicePost := createTestPost(t, app, aliceToken, "Alice writes", nil)
	bobPost := createTestPost(t, app, bobToken, "Bob writes", nil)

	// Alice engages with bob's post; bob engages with alice's.
	doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/post/%d/like", bobPost), aliceToken, nil)
	doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/post/%d/comment", bobPost), aliceToken, map[string]any{"comment": "from alice"})
	doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/user/favourites/%d", bobPost), aliceToken, nil)
	doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/post/%d/like", alicePost), bobToken, nil)
	doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/post/%d/comment", alicePost), bobToken, map[string]any{"comment": "from bob"})
	doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/user/favourites/%d", alicePost), bobToken, nil)

	resp, _ := doJSON(t, app, fiber.MethodDelete, "/user/delete", aliceToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Alice, her posts, and every row referencing either are gone.
	var users, posts, likes, comments, favourites int64
	db.Model(&models.User{}).Where("id = ?", aliceID).Count(&users)
	db.Model(&models.Post{}).Where("user_id = ?", aliceID).Count(&posts)
	db.Model(&models.Like{}).Where("user_id = ? OR post_id = ?", aliceID, alicePost).Count(&likes)
	db.Model(&models.Comment{}).Where("user_id = ? OR post_id = ?", aliceID, alicePost).Count(&comments)
	db.Model(&models.Favourite{}).Where("user_id = ? OR post_id = ?", aliceID, alicePost).Count(&favourites)
	assert.Zero(t, users)
	assert.Zero(t, posts)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
	assert.Zero(t, favourites)

	// Bob's own content survives.
	var bobPosts int64
	db.Model(&models.Post{}).Where("user_id = ?", bobID).Count(&bobPosts)
	assert.Equal(t, int64(1), bobPosts)

	resp, body := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/post/%d", bobPost), bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	post := body["post"].(map[string]any)
	assert.Equal(t, float64(0), post["likes_count"], "alice's like is gone")
	assert.Equal(t, float64(0), post["comments_count"], "alice's comment is gone")
}
