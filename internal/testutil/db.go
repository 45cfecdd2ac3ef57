// Package testutil provides shared fixtures for tests backed by an in-memory SQLite store.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"scribe/internal/database"
	"scribe/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a fresh, migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(database.SQLiteDSN(":memory:")))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with the given username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateGroup inserts a group titled after its slug.
func CreateGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, db.Create(g).Error)
	return g
}

// CreatePost inserts a post by author, optionally in group.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, db.Omit("Author", "Group").Create(p).Error)
	return p
}

// CreatePosts inserts n posts by author with strictly increasing creation times.
func CreatePosts(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Post{Text: fmt.Sprintf("post %d", i+1), AuthorID: author.ID, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if group != nil {
			p.GroupID = &group.ID
		}
		require.NoError(t, db.Omit("Author", "Group").Create(p).Error)
		posts = append(posts, p)
	}
	return posts
}

// CreateComment inserts a comment on post.
func CreateComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User, text string) *models.Comment {
	t.Helper()
	c := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: text}
	require.NoError(t, db.Omit("Author", "Post").Create(c).Error)
	return c
}

// CreateFollow records that user follows author.
func CreateFollow(t *testing.T, db *gorm.DB, user, author *models.User) {
	t.Helper()
	require.NoError(t, db.Omit("User", "Author").Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error)
}
