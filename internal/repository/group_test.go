package repository

import (
	"context"
	"testing"

	"scribe/internal/cache"
	"scribe/internal/models"
	"scribe/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository_DeleteKeepsPosts(t *testing.T) {
	db := testutil.NewDB(t)
	groups := NewGroupRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "leo")
	cats := testutil.CreateGroup(t, db, "cats")
	post := testutil.CreatePost(t, db, author, cats, "in cats")

	require.NoError(t, groups.Delete(ctx, cats.ID))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)

	_, err = groups.GetBySlug(ctx, "cats")
	assert.True(t, models.IsNotFound(err))
	assert.True(t, models.IsNotFound(groups.Delete(ctx, cats.ID)))
}

func TestGroupRepository_CreateDuplicateSlug(t *testing.T) {
	db := testutil.NewDB(t)
	groups := NewGroupRepository(db)
	ctx := context.Background()

	require.NoError(t, groups.Create(ctx, &models.Group{Title: "Cats", Slug: "cats"}))
	err := groups.Create(ctx, &models.Group{Title: "More cats", Slug: "cats"})
	assert.True(t, models.IsConstraintViolation(err))
}

func TestGroupRepository_List(t *testing.T) {
	db := testutil.NewDB(t)
	groups := NewGroupRepository(db)
	require.NoError(t, groups.Create(context.Background(), &models.Group{Title: "Zebras", Slug: "z"}))
	require.NoError(t, groups.Create(context.Background(), &models.Group{Title: "Apes", Slug: "a"}))

	list, err := groups.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Apes", list[0].Title)
}

func TestGroupRepository_GetBySlugCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := testutil.NewDB(t)
	groups := NewGroupRepository(db)
	ctx := context.Background()
	cats := testutil.CreateGroup(t, db, "cats")

	got, err := groups.GetBySlug(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, cats.ID, got.ID)
	assert.True(t, mr.Exists(cache.GroupKey("cats")))

	cats.Title = "Renamed"
	require.NoError(t, groups.Update(ctx, cats))
	assert.False(t, mr.Exists(cache.GroupKey("cats")))

	got, err = groups.GetBySlug(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	_, err = groups.GetBySlug(ctx, "nope")
	assert.True(t, models.IsNotFound(err))
	assert.False(t, mr.Exists(cache.GroupKey("nope")))
}
