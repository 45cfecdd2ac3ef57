package models

import (
	"fmt"
	"time"
)

// labelTextLen is how much of a post or comment body appears in its label.
const labelTextLen = 15

// Post is a published entry. Author and CreatedAt never change after creation.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_posts_created" json:"created_at"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"type:varchar(255)" json:"image,omitempty"`
}

func (p Post) String() string {
	group := "-"
	if p.Group != nil {
		group = p.Group.String()
	}
	return fmt.Sprintf("%s, %s, %s, %s",
		p.Author.String(), truncate(p.Text, labelTextLen), group, p.CreatedAt.Format(time.RFC3339))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
