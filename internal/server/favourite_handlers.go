package server

import (
	"github.com/asad-as1/BlogBuddy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddFavourite handles GET /user/favourites/:postId
func (s *Server) AddFavourite(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.userService.AddFavourite(c.Context(), identity, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post added to favourites"})
}

// RemoveFavourite handles GET /user/removeFavourites/:postId
func (s *Server) RemoveFavourite(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.userService.RemoveFavourite(c.Context(), identity, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post removed from favourites"})
}

// CheckFavourite handles GET /user/favourites/check/:postId
func (s *Server) CheckFavourite(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	isFavourite, err := s.userService.IsFavourite(c.Context(), identity, postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"isFavourite": isFavourite})
}

// ListFavourites handles GET /user/favourites
func (s *Server) ListFavourites(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	posts, err := s.userService.ListFavourites(c.Context(), identity)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"favourites": posts})
}
