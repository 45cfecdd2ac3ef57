package models

import (
	"fmt"
	"time"
)

// Comment is a reader's reply to a Post. The Post owns its comments.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Text      string    `gorm:"type:text;not null" json:"text"`
}

func (c Comment) String() string {
	return fmt.Sprintf("%s, %s, %s",
		c.Author.String(), truncate(c.Text, labelTextLen), c.CreatedAt.Format(time.RFC3339))
}
