package service

import (
	"context"

	"github.com/asad-as1/BlogBuddy/internal/models"
	"github.com/asad-as1/BlogBuddy/internal/repository"
)

// CommentService owns comments, which a post exclusively owns.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// AddComment appends a comment authored by the acting identity.
func (s *CommentService) AddComment(ctx context.Context, identity models.Identity, postID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  identity.ID,
		Content: content,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the post's comments, oldest first, with authors.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes a comment; only its author or an admin may do so.
func (s *CommentService) DeleteComment(ctx context.Context, identity models.Identity, postID, commentID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return models.NewNotFoundError("Comment", commentID)
	}

	if !identity.CanModify(comment.UserID) {
		return models.NewForbiddenError("You are not authorized to delete this comment")
	}

	return s.commentRepo.Delete(ctx, commentID)
}
