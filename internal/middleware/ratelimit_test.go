package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		expectedAllow bool
		expectErr     bool
	}{
		{"test environment bypass", "test", true, false},
		{"development environment bypass", "development", true, false},
		{"nil redis in production", "production", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)

			allowed, err := CheckRateLimit(context.Background(), nil, "posts", "1", 1, time.Minute)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrNoRateLimitStore)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedAllow, allowed)
		})
	}
}

func TestCheckRateLimit_Counts(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	for i := 0; i < 2; i++ {
		allowed, err := CheckRateLimit(context.Background(), rdb, "comments", "user:1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := CheckRateLimit(context.Background(), rdb, "comments", "user:1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.True(t, mr.TTL("rl:comments:user:1") > 0)
}

func TestRateLimitWithPolicy(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	tests := []struct {
		name     string
		policy   FailPolicy
		expected int
	}{
		{"fail open without store", FailOpen, fiber.StatusOK},
		{"fail closed without store", FailClosed, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/x", RateLimitWithPolicy(nil, 1, time.Minute, tt.policy, "x"), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})
			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/x", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}
