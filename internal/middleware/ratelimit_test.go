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
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCheckRateLimitEnvironmentBypass(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{"test bypass", "test"},
		{"development bypass", "development"},
		{"empty env defaults to development", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)

			allowed, err := CheckRateLimit(context.Background(), nil, "signup", "user:1", 1, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestCheckRateLimitCountsAgainstWindow(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr, rdb := newMiniredisClient(t)

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(context.Background(), rdb, "cast_vote", "user:7", 3, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d should be within the limit", i+1)
	}

	allowed, err := CheckRateLimit(context.Background(), rdb, "cast_vote", "user:7", 3, time.Minute)
	assert.NoError(t, err)
	assert.False(t, allowed, "fourth request should exceed the limit")

	// A different voter has an independent counter.
	allowed, err = CheckRateLimit(context.Background(), rdb, "cast_vote", "user:8", 3, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)

	// After the window expires the counter resets.
	mr.FastForward(2 * time.Minute)
	allowed, err = CheckRateLimit(context.Background(), rdb, "cast_vote", "user:7", 3, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimitNilRedis(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	allowed, err := CheckRateLimit(context.Background(), nil, "signup", "ip:1.2.3.4", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("429 once the limit is hit", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, rdb := newMiniredisClient(t)

		app := fiber.New()
		app.Post("/vote", RateLimit(rdb, 2, time.Minute, "cast_vote"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		for i := 0; i < 2; i++ {
			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/vote", nil))
			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			_ = resp.Body.Close()
		}

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/vote", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("keys by user ID when authenticated", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, rdb := newMiniredisClient(t)

		app := fiber.New()
		var userID uint
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", userID)
			return c.Next()
		})
		app.Post("/vote", RateLimit(rdb, 1, time.Minute, "cast_vote"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		userID = 1
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/vote", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/vote", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		_ = resp.Body.Close()

		// A different user is not throttled by the first user's counter.
		userID = 2
		resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/vote", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("fail-open with nil redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		app := fiber.New()
		app.Post("/vote", RateLimit(nil, 1, time.Minute), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/vote", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("fail-closed with nil redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		app := fiber.New()
		app.Post("/vote", RateLimitWithPolicy(nil, 1, time.Minute, FailClosed), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/vote", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
