package service

import (
	"context"
	"strings"

	"github.com/asad-as1/BlogBuddy/internal/models"
	"github.com/asad-as1/BlogBuddy/internal/repository"
	"github.com/asad-as1/BlogBuddy/internal/validation"
)

// PostService owns the post lifecycle and its likes set.
type PostService struct {
	postRepo repository.PostRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// PostInput carries the fields accepted when creating or updating a post.
type PostInput struct {
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Media      models.Media `json:"media"`
	Categories []string     `json:"categories"`
	Visibility string       `json:"isPublished"`
}

func normalizeVisibility(v string) (string, error) {
	switch v {
	case "":
		return models.VisibilityPublic, nil
	case models.VisibilityPublic, models.VisibilityPrivate:
		return v, nil
	default:
		return "", models.NewValidationError("isPublished must be Public or Private")
	}
}

// CreatePost creates a post authored by the acting identity. The author is
// never taken from the request body.
func (s *PostService) CreatePost(ctx context.Context, identity models.Identity, in PostInput) (*models.Post, error) {
	if in.Title == "" || in.Content == "" {
		return nil, models.NewValidationError("Title and content are required")
	}
	if err := validation.ValidateMediaURL(in.Media.URL); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	visibility, err := normalizeVisibility(in.Visibility)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		Media:      in.Media,
		Categories: in.Categories,
		Visibility: visibility,
		UserID:     identity.ID,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, identity.ID)
}

// ListPosts returns all posts, newest first. Visibility is not filtered;
// private posts are included in the listing.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

// GetPost returns a single post with its author loaded.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

// UpdatePost applies the ownership policy, then overwrites the mutable
// fields. Update and delete are gated by the same rule.
func (s *PostService) UpdatePost(ctx context.Context, identity models.Identity, postID uint, in PostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, identity.ID)
	if err != nil {
		return nil, err
	}

	if !identity.CanModify(post.UserID) {
		return nil, models.NewForbiddenError("You are not authorized to update this post")
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.Media.URL != "" {
		if err := validation.ValidateMediaURL(in.Media.URL); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Media = in.Media
	}
	if in.Categories != nil {
		post.Categories = in.Categories
	}
	if in.Visibility != "" {
		visibility, err := normalizeVisibility(in.Visibility)
		if err != nil {
			return nil, err
		}
		post.Visibility = visibility
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost applies the ownership policy and removes the post with its
// likes, comments and favourites rows.
func (s *PostService) DeletePost(ctx context.Context, identity models.Identity, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, identity.ID)
	if err != nil {
		return err
	}

	if !identity.CanModify(post.UserID) {
		return models.NewForbiddenError("You are not authorized to delete this post")
	}

	return s.postRepo.Delete(ctx, postID)
}

// LikePost adds the identity to the post's likes set. Liking twice is a
// conflict and leaves the count unchanged.
func (s *PostService) LikePost(ctx context.Context, identity models.Identity, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}
	return s.postRepo.Like(ctx, identity.ID, postID)
}

// UnlikePost removes the identity from the post's likes set. Unliking a post
// that was never liked is a conflict.
func (s *PostService) UnlikePost(ctx context.Context, identity models.Identity, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}
	return s.postRepo.Unlike(ctx, identity.ID, postID)
}

// ListLikers returns the users who liked the post.
func (s *PostService) ListLikers(ctx context.Context, postID uint) ([]models.User, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.postRepo.ListLikers(ctx, postID)
}

// SearchPosts matches the query as a case-insensitive substring of the title
// or a category tag. Same contract as user search: empty query is rejected.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}
