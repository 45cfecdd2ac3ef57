package service

import (
	"testing"

	"scribe/internal/repository"
	"scribe/internal/testutil"

	"gorm.io/gorm"
)

// fixture wires every service to one in-memory database.
type fixture struct {
	db       *gorm.DB
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository

	feed      *FeedService
	postSvc   *PostService
	comment   *CommentService
	followSvc *FollowService
}

func newFixture(t *testing.T, pageSize int) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		posts:    repository.NewPostRepository(db),
		groups:   repository.NewGroupRepository(db),
		users:    repository.NewUserRepository(db),
		comments: repository.NewCommentRepository(db),
		follows:  repository.NewFollowRepository(db),
	}
	f.feed = NewFeedService(f.posts, f.groups, f.users, f.comments, f.follows, pageSize)
	f.postSvc = NewPostService(f.posts, f.groups, nil)
	f.comment = NewCommentService(f.comments, f.posts)
	f.followSvc = NewFollowService(f.users, f.follows)
	return f
}
