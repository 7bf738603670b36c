package models

import (
	"time"
)

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique; the repository relies
// on this index for atomic insert-or-conflict semantics.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

// Favourite is the join row behind a user's favourites list. Adding a post
// twice, or removing one that is absent, is a conflict rather than a no-op.
type Favourite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_fav_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_fav_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the table name the repository's raw inserts target.
func (Favourite) TableName() string {
	return "favourites"
}
