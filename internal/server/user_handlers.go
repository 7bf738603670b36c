package server

import (
	"strconv"

	"github.com/asad-as1/BlogBuddy/internal/middleware"
	"github.com/asad-as1/BlogBuddy/internal/models"
	"github.com/asad-as1/BlogBuddy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseIDParam reads a numeric route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// GetProfile handles GET /user/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	user, err := s.userService.GetProfile(c.Context(), identity)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// GetProfileByUsername handles GET /user/profile/:username
func (s *Server) GetProfileByUsername(c *fiber.Ctx) error {
	identity := identityFromCtx(c)
	username := c.Params("username")

	user, isOwnProfile, err := s.userService.GetByUsername(c.Context(), identity, username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":         user,
		"isOwnProfile": isOwnProfile,
	})
}

// GetUserByID handles POST /user/getUserById. Used to resolve post authors,
// so it returns only public profile fields.
func (s *Server) GetUserByID(c *fiber.Ctx) error {
	var input struct {
		Author uint `json:"author"`
	}
	if err := c.BodyParser(&input); err != nil || input.Author == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("author is required"))
	}

	user, err := s.userService.GetByID(c.Context(), input.Author)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"user": user.Public()})
}

// UpdateProfile handles PUT /user/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), identity, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// DeleteAccount handles DELETE /user/delete. The target is always the
// authenticated account; posts, likes, comments and favourites go with it.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	if err := s.userService.DeleteAccount(c.Context(), identity); err != nil {
		return models.RespondWithAppError(c, err)
	}

	// The credential no longer resolves to a user; clear the cookie too.
	s.clearTokenCookie(c)

	middleware.Logger.InfoContext(c.Context(), "account deleted", "user_id", identity.ID)

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// SearchUsers handles GET /user/search?query=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("query")

	users, err := s.userService.SearchUsers(c.Context(), query)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"users": users})
}
