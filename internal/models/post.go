package models

import (
	"encoding/json"
	"time"
)

// Visibility states for a post. A post toggles between the two via update;
// deletion is the only terminal transition.
const (
	VisibilityPublic  = "Public"
	VisibilityPrivate = "Private"
)

// Media is the stored reference to externally hosted media. The backend never
// inspects file bytes; upload is delegated to the object-storage collaborator.
type Media struct {
	URL     string `gorm:"not null" json:"url"`
	IsVideo bool   `gorm:"default:false" json:"isVideo"`
}

// Post represents a blog post authored by a user.
type Post struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Title      string   `gorm:"not null" json:"title"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	Media      Media    `gorm:"embedded;embeddedPrefix:media_" json:"media"`
	UserID     uint     `gorm:"not null;index" json:"author"`
	User       User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Categories []string `gorm:"serializer:json" json:"categories"`
	Visibility string   `gorm:"not null;default:Public" json:"isPublished"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MarshalJSON serializes the embedded author as the public projection, so
// posts never carry the author's email or role into responses.
func (p Post) MarshalJSON() ([]byte, error) {
	type alias Post
	aux := struct {
		alias
		User *PublicUser `json:"user,omitempty"`
	}{alias: alias(p)}

	if p.User.ID != 0 {
		author := p.User.Public()
		aux.User = &author
	}
	return json.Marshal(aux)
}
