package repository

import (
	"context"
	"regexp"
	"testing"

	"scribe/internal/models"
	"scribe/internal/pagination"
	"scribe/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	post := &models.Post{Text: "hello", AuthorID: 3}
	require.NoError(t, repo.Create(context.Background(), post))
	assert.Equal(t, uint(1), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_FollowedByUsesSingleJoin(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" JOIN follows ON follows.author_id = posts.author_id WHERE follows.user_id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	n, err := repo.FollowedBy(5).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByIDNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 404)
	assert.True(t, models.IsNotFound(err))
}

func TestPostRepository_GetByIDPreloads(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	author := testutil.CreateUser(t, db, "leo")
	group := testutil.CreateGroup(t, db, "cats")
	post := testutil.CreatePost(t, db, author, group, "text")

	got, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "leo", got.Author.Username)
	require.NotNil(t, got.Group)
	assert.Equal(t, "cats", got.Group.Slug)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestPostRepository_Ordering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	author := testutil.CreateUser(t, db, "leo")
	posts := testutil.CreatePosts(t, db, author, nil, 3)

	got, err := repo.All().Fetch(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, posts[2].ID, got[0].ID)
	assert.Equal(t, posts[0].ID, got[2].ID)
	assert.Equal(t, "leo", got[0].Author.Username)
}

func TestPostRepository_OrderingTiesByID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	author := testutil.CreateUser(t, db, "leo")
	first := testutil.CreatePost(t, db, author, nil, "a")
	second := testutil.CreatePost(t, db, author, nil, "b")
	require.NoError(t, db.Model(&models.Post{}).Where("id IN ?", []uint{first.ID, second.ID}).
		Update("created_at", first.CreatedAt).Error)

	got, err := repo.All().Fetch(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}

func TestPostRepository_Sources(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")
	reader := testutil.CreateUser(t, db, "reader")
	cats := testutil.CreateGroup(t, db, "cats")

	testutil.CreatePosts(t, db, leo, cats, 2)
	testutil.CreatePosts(t, db, ann, nil, 3)
	testutil.CreateFollow(t, db, reader, leo)

	tests := []struct {
		name   string
		source pagination.Source[models.Post]
		want   int64
	}{
		{"all", repo.All(), 5},
		{"by author", repo.ByAuthor(ann.ID), 3},
		{"by group", repo.ByGroup(cats.ID), 2},
		{"followed", repo.FollowedBy(reader.ID), 2},
		{"followed by nobody", repo.FollowedBy(leo.ID), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.source.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)

			items, err := tt.source.Fetch(ctx, 0, 10)
			require.NoError(t, err)
			assert.Len(t, items, int(tt.want))
		})
	}
}

func TestPostRepository_FollowedByMatchesFollows(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")
	reader := testutil.CreateUser(t, db, "reader")
	leoPost := testutil.CreatePost(t, db, leo, nil, "by leo")
	testutil.CreatePost(t, db, ann, nil, "by ann")
	testutil.CreateFollow(t, db, reader, leo)

	items, err := repo.FollowedBy(reader.ID).Fetch(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, leoPost.ID, items[0].ID)
	assert.Equal(t, leo.ID, items[0].AuthorID)
	assert.Equal(t, "by leo", items[0].Text)
}

func TestPostRepository_UpdateFields(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "leo")
	cats := testutil.CreateGroup(t, db, "cats")
	post := testutil.CreatePost(t, db, author, cats, "before")

	text := "after"
	require.NoError(t, repo.UpdateFields(ctx, post.ID, PostFields{Text: &text, SetGroup: true}))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Text)
	assert.Nil(t, got.GroupID)
	assert.Equal(t, author.ID, got.AuthorID)
	assert.True(t, got.CreatedAt.Equal(post.CreatedAt))

	err = repo.UpdateFields(ctx, 999, PostFields{Text: &text})
	assert.True(t, models.IsNotFound(err))
}

func TestPostRepository_DeleteCascadesComments(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "leo")
	post := testutil.CreatePost(t, db, author, nil, "text")
	other := testutil.CreatePost(t, db, author, nil, "other")
	testutil.CreateComment(t, db, post, author, "one")
	testutil.CreateComment(t, db, post, author, "two")
	testutil.CreateComment(t, db, other, author, "kept")

	require.NoError(t, repo.Delete(ctx, post.ID))

	n, err := comments.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = comments.CountByPost(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.True(t, models.IsNotFound(repo.Delete(ctx, post.ID)))
}

func TestPostRepository_CreateWithUnknownAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)

	err := repo.Create(context.Background(), &models.Post{Text: "x", AuthorID: 999})
	assert.True(t, models.IsConstraintViolation(err))
}
