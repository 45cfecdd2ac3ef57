package models

import (
	"fmt"
	"time"
)

// Follow records that User follows Author. The pair is unique.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index:idx_follow_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index:idx_follow_author" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

func (f Follow) String() string {
	return fmt.Sprintf("%s, %s", f.Author.String(), f.User.String())
}
