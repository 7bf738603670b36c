package models

import (
	"encoding/json"
	"time"
)

// Comment represents a comment on a post. A post exclusively owns its
// comments; they are removed together with it.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user"`
	User      User      `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// MarshalJSON serializes the embedded author as the public projection.
func (c Comment) MarshalJSON() ([]byte, error) {
	type alias Comment
	aux := struct {
		alias
		Author *PublicUser `json:"author,omitempty"`
	}{alias: alias(c)}

	if c.User.ID != 0 {
		author := c.User.Public()
		aux.Author = &author
	}
	return json.Marshal(aux)
}
