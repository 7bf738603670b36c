package server

import (
	"github.com/asad-as1/BlogBuddy/internal/middleware"
	"github.com/asad-as1/BlogBuddy/internal/models"
	"github.com/asad-as1/BlogBuddy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /post/newPost
func (s *Server) CreatePost(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	var input service.PostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), identity, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.Logger.InfoContext(c.Context(), "post created",
		"post_id", post.ID,
		"user_id", identity.ID,
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetAllPosts handles GET /post/allPosts
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postService.ListPosts(c.Context(), limit, offset, currentUserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /post/:postId
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	currentUserID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), postID, currentUserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"post": post})
}

// UpdatePost handles PUT /post/:postId
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var input service.PostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), identity, postID, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// DeletePost handles DELETE /post/:postId
func (s *Server) DeletePost(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.postService.DeletePost(c.Context(), identity, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.Logger.InfoContext(c.Context(), "post deleted",
		"post_id", postID,
		"user_id", identity.ID,
	)

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// LikePost handles POST /post/:postId/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.postService.LikePost(c.Context(), identity, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post liked successfully"})
}

// UnlikePost handles POST /post/:postId/unlike
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.postService.UnlikePost(c.Context(), identity, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post unliked successfully"})
}

// GetLikes handles GET /post/:postId/likes
func (s *Server) GetLikes(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	likers, err := s.postService.ListLikers(c.Context(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	likes := make([]models.PublicUser, 0, len(likers))
	for i := range likers {
		likes = append(likes, likers[i].Public())
	}

	return c.JSON(fiber.Map{
		"likes": likes,
		"count": len(likes),
	})
}

// SearchPosts handles GET /post/search?query=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := c.Query("query")
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postService.SearchPosts(c.Context(), query, limit, offset, currentUserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"posts": posts})
}
