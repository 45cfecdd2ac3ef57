package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"scribe/internal/config"
	"scribe/internal/models"
	"scribe/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-long-enough-0123456789"

type testEnv struct {
	s   *Server
	app *fiber.App
	db  *gorm.DB
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                  "test",
		Port:                 "0",
		JWTSecret:            testSecret,
		JWTTTLMinutes:        60,
		LoginURL:             "/api/auth/login",
		PostsPerPage:         10,
		ImageUploadDir:       t.TempDir(),
		ImageMaxUploadSizeMB: 1,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithRedis(t, nil)
}

func newTestEnvWithRedis(t *testing.T, rdb *redis.Client) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	s, err := NewServerWithDeps(testConfig(t), db, rdb)
	require.NoError(t, err)
	return &testEnv{s: s, app: s.NewApp(), db: db}
}

func (e *testEnv) token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := e.s.authService.IssueToken(u.ID)
	require.NoError(t, err)
	return tok
}

// do sends a request through the full middleware stack. token may be empty.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	return e.do(t, http.MethodGet, path, nil, "", token)
}

func (e *testEnv) sendJSON(t *testing.T, method, path string, payload any, token string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.do(t, method, path, bytes.NewReader(raw), fiber.MIMEApplicationJSON, token)
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// multipartBody builds a form with the given fields and, when img is non-nil,
// an "image" file part.
func multipartBody(t *testing.T, fields map[string]string, img []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if img != nil {
		part, err := writer.CreateFormFile("image", "small.png")
		require.NoError(t, err)
		_, err = part.Write(img)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func postCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Post{}).Count(&n).Error)
	return n
}
