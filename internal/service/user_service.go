// Package service implements the application's business rules on top of the
// repository layer, including the ownership policy gating mutations.
package service

import (
	"context"
	"strings"

	"github.com/asad-as1/BlogBuddy/internal/models"
	"github.com/asad-as1/BlogBuddy/internal/repository"
	"github.com/asad-as1/BlogBuddy/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService owns account lifecycle, profile and favourites operations.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username       string `json:"username"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}

// Register creates a new account. Registration succeeds exactly once per
// email; a duplicate surfaces as a conflict, never a generic storage error.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:       in.Username,
		Name:           in.Name,
		Email:          in.Email,
		Password:       string(hashed),
		Bio:            in.Bio,
		ProfilePicture: in.ProfilePicture,
		Role:           models.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns the matching user. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	return user, nil
}

// GetProfile returns the acting user's own profile with recent posts.
func (s *UserService) GetProfile(ctx context.Context, identity models.Identity) (*models.User, error) {
	return s.userRepo.GetByIDWithPosts(ctx, identity.ID, 20)
}

// GetByUsername returns the named profile and whether it belongs to the viewer.
func (s *UserService) GetByUsername(ctx context.Context, identity models.Identity, username string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByUsernameWithPosts(ctx, username, 20)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, models.NewNotFoundError("User", username)
	}
	return user, identity.Username == username, nil
}

// GetByID returns the user with the given ID, for author lookups.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Username       string `json:"username"`
	Name           string `json:"name"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}

// UpdateProfile overwrites the provided profile fields. Only the named
// columns are written, so fields the caller left unset stay untouched.
func (s *UserService) UpdateProfile(ctx context.Context, identity models.Identity, in UpdateProfileInput) (*models.User, error) {
	fields := map[string]interface{}{}

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["username"] = in.Username
	}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Bio != "" {
		if len(in.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		fields["bio"] = in.Bio
	}
	if in.ProfilePicture != "" {
		fields["profile_picture"] = in.ProfilePicture
	}

	if err := s.userRepo.UpdateProfile(ctx, identity.ID, fields); err != nil {
		return nil, err
	}

	// The write invalidated the cache entry, so this read is fresh.
	return s.userRepo.GetByID(ctx, identity.ID)
}

// DeleteAccount removes the acting identity's own account and cascades.
// Only the account holder may delete it; there is no admin override because
// the operation always targets the credential presented with the request.
func (s *UserService) DeleteAccount(ctx context.Context, identity models.Identity) error {
	return s.userRepo.DeleteCascade(ctx, identity.ID)
}

// AddFavourite puts the post on the user's favourites list.
func (s *UserService) AddFavourite(ctx context.Context, identity models.Identity, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}
	return s.userRepo.AddFavourite(ctx, identity.ID, postID)
}

// RemoveFavourite takes the post off the user's favourites list.
func (s *UserService) RemoveFavourite(ctx context.Context, identity models.Identity, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}
	return s.userRepo.RemoveFavourite(ctx, identity.ID, postID)
}

// IsFavourite reports whether the post is on the user's favourites list.
func (s *UserService) IsFavourite(ctx context.Context, identity models.Identity, postID uint) (bool, error) {
	return s.userRepo.IsFavourite(ctx, identity.ID, postID)
}

// ListFavourites returns the user's favourites, most recently added first.
func (s *UserService) ListFavourites(ctx context.Context, identity models.Identity) ([]models.Post, error) {
	return s.userRepo.ListFavourites(ctx, identity.ID)
}

// SearchUsers matches the query as a case-insensitive substring of the
// username or display name.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.userRepo.Search(ctx, query, 50)
}
