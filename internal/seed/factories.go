// Package seed populates a database with believable development data.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/asad-as1/BlogBuddy/internal/models"
	"github.com/asad-as1/BlogBuddy/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password assigned to every seeded account.
const DefaultPassword = "password123"

var categories = []string{
	"technology", "travel", "food", "music", "sports",
	"photography", "programming", "gaming", "fitness", "books",
}

// UserFactory builds a user with a hashed default password.
func UserFactory() *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	return &models.User{
		Username:       gofakeit.Username(),
		Name:           gofakeit.Name(),
		Email:          gofakeit.Email(),
		Password:       string(hashed),
		Bio:            gofakeit.Sentence(12),
		ProfilePicture: gofakeit.ImageURL(256, 256),
		Role:           models.RoleUser,
	}
}

// PostFactory builds a post authored by the given user.
func PostFactory(userID uint) *models.Post {
	n := rand.Intn(3) + 1
	tags := make([]string, 0, n)
	for _, i := range rand.Perm(len(categories))[:n] {
		tags = append(tags, categories[i])
	}

	visibility := models.VisibilityPublic
	if rand.Intn(10) == 0 {
		visibility = models.VisibilityPrivate
	}

	return &models.Post{
		Title:   gofakeit.Sentence(6),
		Content: gofakeit.Paragraph(2, 4, 10, " "),
		Media: models.Media{
			URL:     gofakeit.ImageURL(800, 600),
			IsVideo: false,
		},
		Categories: tags,
		Visibility: visibility,
		UserID:     userID,
	}
}

// CommentFactory builds a comment by the given user on the given post.
func CommentFactory(userID, postID uint) *models.Comment {
	return &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: gofakeit.Sentence(8),
	}
}

// Run seeds the database with users, posts, comments, likes and favourites.
func Run(ctx context.Context, db *gorm.DB, userCount, postsPerUser int) error {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	users := make([]*models.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := UserFactory()
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}

	posts := make([]*models.Post, 0, userCount*postsPerUser)
	for _, user := range users {
		for i := 0; i < postsPerUser; i++ {
			post := PostFactory(user.ID)
			if err := postRepo.Create(ctx, post); err != nil {
				return fmt.Errorf("seeding post for user %d: %w", user.ID, err)
			}
			posts = append(posts, post)
		}
	}

	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID {
				continue
			}
			if rand.Intn(3) == 0 {
				// Ignore duplicate-like conflicts; the set semantics hold.
				_ = postRepo.Like(ctx, user.ID, post.ID)
			}
			if rand.Intn(5) == 0 {
				if err := commentRepo.Create(ctx, CommentFactory(user.ID, post.ID)); err != nil {
					return fmt.Errorf("seeding comment: %w", err)
				}
			}
			if rand.Intn(6) == 0 {
				_ = userRepo.AddFavourite(ctx, user.ID, post.ID)
			}
		}
	}

	return nil
}
