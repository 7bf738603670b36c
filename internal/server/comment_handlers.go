package server

import (
	"github.com/asad-as1/BlogBuddy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /post/:postId/comment
func (s *Server) AddComment(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var input struct {
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.Context(), identity, postID, input.Comment)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// GetComments handles GET /post/:postId/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

// DeleteComment handles DELETE /post/:postId/comment/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.commentService.DeleteComment(c.Context(), identity, postID, commentID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
