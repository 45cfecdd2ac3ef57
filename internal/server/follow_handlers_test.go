package server

import (
	"net/http"
	"testing"

	"scribe/internal/models"
	"scribe/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followRows(t *testing.T, env *testEnv, user, author *models.User) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", user.ID, author.ID).
		Count(&n).Error)
	return n
}

func TestFollowAuthor(t *testing.T) {
	env := newTestEnv(t)
	reader := testutil.CreateUser(t, env.db, "ann")
	author := testutil.CreateUser(t, env.db, "leo")
	token := env.token(t, reader)

	t.Run("follow twice keeps one row", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp := env.do(t, http.MethodPost, "/api/profile/leo/follow", nil, "", token)
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, "/api/profile/leo", resp.Header.Get(fiber.HeaderLocation))
			assert.Equal(t, "private, no-store", resp.Header.Get(fiber.HeaderCacheControl))
		}
		assert.Equal(t, int64(1), followRows(t, env, reader, author))
	})

	t.Run("self follow is ignored", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/profile/ann/follow", nil, "", token)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, int64(0), followRows(t, env, reader, reader))
	})

	t.Run("unknown author", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/profile/ghost/follow", nil, "", token)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("anonymous is sent to login", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/profile/leo/follow", nil, "", "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/api/auth/login?next=%2Fapi%2Fprofile%2Fleo%2Ffollow", resp.Header.Get(fiber.HeaderLocation))
	})
}

func TestUnfollowAuthor(t *testing.T) {
	env := newTestEnv(t)
	reader := testutil.CreateUser(t, env.db, "ann")
	author := testutil.CreateUser(t, env.db, "leo")
	testutil.CreateFollow(t, env.db, reader, author)
	token := env.token(t, reader)

	for i := 0; i < 2; i++ {
		resp := env.do(t, http.MethodPost, "/api/profile/leo/unfollow", nil, "", token)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/api/profile/leo", resp.Header.Get(fiber.HeaderLocation))
	}
	assert.Equal(t, int64(0), followRows(t, env, reader, author))

	resp := env.do(t, http.MethodPost, "/api/profile/ghost/unfollow", nil, "", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowThenFollowedFeed(t *testing.T) {
	env := newTestEnv(t)
	reader := testutil.CreateUser(t, env.db, "ann")
	author := testutil.CreateUser(t, env.db, "leo")
	testutil.CreatePost(t, env.db, author, nil, "from leo")
	token := env.token(t, reader)

	feedLen := func() int {
		resp := env.get(t, "/api/follow", token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page struct {
			Items []models.Post `json:"items"`
		}
		decodeJSON(t, resp, &page)
		return len(page.Items)
	}

	assert.Equal(t, 0, feedLen())

	resp := env.do(t, http.MethodPost, "/api/profile/leo/follow", nil, "", token)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 1, feedLen())

	resp = env.do(t, http.MethodPost, "/api/profile/leo/unfollow", nil, "", token)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 0, feedLen())
}
