package server

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"scribe/internal/models"
	"scribe/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.sendJSON(t, http.MethodPost, "/api/posts", fiber.Map{"text": "hi"}, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/api/auth/login?next=%2Fapi%2Fposts", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, int64(0), postCount(t, env.db))
}

func TestCreatePost_JSON(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "leo")
	cats := testutil.CreateGroup(t, env.db, "cats")
	token := env.token(t, author)

	t.Run("creates and redirects to profile", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPost, "/api/posts", fiber.Map{"text": "Hello", "group": cats.ID}, token)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/api/profile/leo", resp.Header.Get(fiber.HeaderLocation))

		var post models.Post
		decodeJSON(t, resp, &post)
		assert.Equal(t, "Hello", post.Text)
		assert.Equal(t, author.ID, post.AuthorID)
		require.NotNil(t, post.GroupID)
		assert.Equal(t, cats.ID, *post.GroupID)
		assert.Equal(t, int64(1), postCount(t, env.db))
	})

	tests := []struct {
		name      string
		payload   fiber.Map
		wantField string
	}{
		{"blank text", fiber.Map{"text": "   "}, "text"},
		{"missing text", fiber.Map{}, "text"},
		{"unknown group", fiber.Map{"text": "x", "group": 9999}, "group"},
		{"malformed group", fiber.Map{"text": "x", "group": "cats"}, "group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := postCount(t, env.db)
			resp := env.sendJSON(t, http.MethodPost, "/api/posts", tt.payload, token)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body models.ErrorResponse
			decodeJSON(t, resp, &body)
			assert.Equal(t, models.CodeValidation, body.Code)
			assert.Contains(t, body.Fields, tt.wantField)
			assert.Equal(t, before, postCount(t, env.db))
		})
	}
}

func TestCreatePost_MultipartWithImage(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "leo")
	token := env.token(t, author)

	body, contentType := multipartBody(t, map[string]string{"text": "with picture", "group": ""}, tinyPNG(t))
	resp := env.do(t, http.MethodPost, "/api/posts", body, contentType, token)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var post models.Post
	decodeJSON(t, resp, &post)
	assert.Nil(t, post.GroupID)
	require.True(t, strings.HasPrefix(post.Image, "posts/"), post.Image)
	assert.True(t, strings.HasSuffix(post.Image, ".png"), post.Image)

	served := env.get(t, "/media/"+post.Image, "")
	assert.Equal(t, http.StatusOK, served.StatusCode)
}

func TestCreatePost_InvalidImage(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "leo")

	body, contentType := multipartBody(t, map[string]string{"text": "bad picture"}, []byte("definitely not an image"))
	resp := env.do(t, http.MethodPost, "/api/posts", body, contentType, env.token(t, author))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody models.ErrorResponse
	decodeJSON(t, resp, &errBody)
	assert.Contains(t, errBody.Fields, "image")
	assert.Equal(t, int64(0), postCount(t, env.db))
}

func TestServeImage_RejectsUnknownNames(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/media/posts/..%2Fsecret", "/media/posts/abc.png", "/media/posts/" + strings.Repeat("a", 64) + ".png"} {
		resp := env.get(t, path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "leo")
	other := testutil.CreateUser(t, env.db, "bob")
	cats := testutil.CreateGroup(t, env.db, "cats")
	post := testutil.CreatePost(t, env.db, author, cats, "original")
	path := postURL(post.ID)

	reload := func(t *testing.T) models.Post {
		t.Helper()
		var p models.Post
		require.NoError(t, env.db.First(&p, post.ID).Error)
		return p
	}

	t.Run("non-author is redirected without changes", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPut, path, fiber.Map{"text": "hijacked", "group": nil}, env.token(t, other))
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, path, resp.Header.Get(fiber.HeaderLocation))

		p := reload(t)
		assert.Equal(t, "original", p.Text)
		require.NotNil(t, p.GroupID)
		assert.Equal(t, cats.ID, *p.GroupID)
	})

	t.Run("author edits text", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPut, path, fiber.Map{"text": "edited"}, env.token(t, author))
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, path, resp.Header.Get(fiber.HeaderLocation))

		p := reload(t)
		assert.Equal(t, "edited", p.Text)
		assert.NotNil(t, p.GroupID)
		assert.Equal(t, author.ID, p.AuthorID)
	})

	t.Run("author clears group", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPut, path, fiber.Map{"group": nil}, env.token(t, author))
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Nil(t, reload(t).GroupID)
	})

	t.Run("author submits blank text", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPut, path, fiber.Map{"text": ""}, env.token(t, author))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "edited", reload(t).Text)
	})

	t.Run("missing post", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPut, "/api/posts/9999", fiber.Map{"text": "x"}, env.token(t, author))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("anonymous is sent to login", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPut, path, fiber.Map{"text": "x"}, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/api/auth/login?next="+strings.ReplaceAll(path, "/", "%2F"), resp.Header.Get(fiber.HeaderLocation))
	})
}

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "leo")
	reader := testutil.CreateUser(t, env.db, "ann")
	post := testutil.CreatePost(t, env.db, author, nil, "hello")
	token := env.token(t, reader)

	t.Run("comment redirects to post", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPost, postURL(post.ID)+"/comments", fiber.Map{"text": "nice"}, token)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, postURL(post.ID), resp.Header.Get(fiber.HeaderLocation))

		var comment models.Comment
		decodeJSON(t, resp, &comment)
		assert.Equal(t, reader.ID, comment.AuthorID)
		assert.Equal(t, post.ID, comment.PostID)
	})

	t.Run("form encoded comment", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"text": "from a form"}, nil)
		resp := env.do(t, http.MethodPost, postURL(post.ID)+"/comments", body, contentType, token)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	})

	t.Run("blank comment", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPost, postURL(post.ID)+"/comments", fiber.Map{"text": " "}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing post", func(t *testing.T) {
		resp := env.sendJSON(t, http.MethodPost, "/api/posts/"+strconv.Itoa(9999)+"/comments", fiber.Map{"text": "x"}, token)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
