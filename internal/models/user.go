// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// User is an account known to the identity collaborator. Every Author is a User.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `gorm:"type:varchar(150)" json:"first_name,omitempty"`
	LastName  string    `gorm:"type:varchar(150)" json:"last_name,omitempty"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Label is the stable display name: the full name when set, the username otherwise.
func (u User) Label() string {
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Username
}

func (u User) String() string {
	return u.Username
}
