package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()

	t.Run("bypassed in test env", func(t *testing.T) {
		l := NewRateLimiter(nil, "test")
		for i := 0; i < 5; i++ {
			ok, err := l.Allow(ctx, "login", "ip:1", 1, time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("nil redis errors when enabled", func(t *testing.T) {
		l := NewRateLimiter(nil, "production")
		_, err := l.Allow(ctx, "login", "ip:1", 1, time.Minute)
		assert.ErrorIs(t, err, ErrNoRateLimitStore)
	})

	t.Run("counts within window", func(t *testing.T) {
		l := NewRateLimiter(rdb, "production")
		for i := 0; i < 3; i++ {
			ok, err := l.Allow(ctx, "register", "ip:2", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		}
		ok, err := l.Allow(ctx, "register", "ip:2", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, time.Minute, mr.TTL("rl:register:ip:2"))

		mr.FastForward(time.Minute + time.Second)
		ok, err = l.Allow(ctx, "register", "ip:2", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestRateLimiter_Handler(t *testing.T) {
	_, rdb := newRedis(t)

	tests := []struct {
		name     string
		limiter  *RateLimiter
		policy   FailPolicy
		statuses []int
	}{
		{"limit exceeded", NewRateLimiter(rdb, "production"), FailOpen, []int{200, 200, 429}},
		{"fail open without redis", NewRateLimiter(nil, "production"), FailOpen, []int{200, 200, 200}},
		{"fail closed without redis", NewRateLimiter(nil, "production"), FailClosed, []int{503}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/auth/login", tt.limiter.Handler(t.Name(), 2, time.Minute, tt.policy), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})
			for _, want := range tt.statuses {
				resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/login", nil), -1)
				require.NoError(t, err)
				assert.Equal(t, want, resp.StatusCode)
			}
		})
	}
}
