package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/siriuscareer/career-admin/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, Identity(c))
	})
	return r
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var env response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	return env.Error.Code
}

func TestRequireIdentity(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantBody   string
	}{
		{name: "present", header: "X-User-ID", value: "admin-7", wantStatus: http.StatusOK, wantBody: "admin-7"},
		{name: "trimmed", header: "X-User-ID", value: "  admin-7 ", wantStatus: http.StatusOK, wantBody: "admin-7"},
		{name: "missing", wantStatus: http.StatusUnauthorized},
		{name: "blank", header: "X-User-ID", value: "   ", wantStatus: http.StatusUnauthorized},
		{name: "other header", header: "X-Other", value: "admin-7", wantStatus: http.StatusUnauthorized},
	}

	r := newEngine(RequireIdentity(""))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, w.Body.String())
				return
			}
			assert.Equal(t, response.ErrIdentityRequired, errCode(t, w))
		})
	}
}

func TestRequireIdentity_CustomHeader(t *testing.T) {
	r := newEngine(RequireIdentity("X-Admin"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Admin", "root")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "root", w.Body.String())
}

func TestRateLimiter_TokenBucket(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "1.1.1.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := rl.Allow(ctx, "1.1.1.1")
	assert.False(t, ok, "bucket exhausted")

	ok, _ = rl.Allow(ctx, "2.2.2.2")
	assert.True(t, ok, "buckets are per key")

	now = now.Add(time.Minute)
	ok, _ = rl.Allow(ctx, "1.1.1.1")
	assert.True(t, ok, "refilled after interval")
}

func TestRateLimiter_LazyCleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }
	rl.lastCleanup = now

	_, _ = rl.Allow(ctx, "1.1.1.1")
	_, _ = rl.Allow(ctx, "2.2.2.2")
	assert.Equal(t, 2, rl.Len())

	now = now.Add(staleVisitorAfter + cleanupEvery)
	_, _ = rl.Allow(ctx, "3.3.3.3")
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimit_Middleware(t *testing.T) {
	r := newEngine(RateLimit(NewRateLimiter(1, time.Minute), zerolog.Nop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, response.ErrRateLimitExceeded, errCode(t, w))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := newEngine(RateLimit(failingLimiter{}, zerolog.Nop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRedisRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	rl := NewRedisRateLimiter(rdb, "test:rl", 2, time.Hour)

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "1.1.1.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := rl.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = rl.Allow(ctx, "2.2.2.2")
	require.NoError(t, err)
	assert.True(t, ok)

	keys := mr.Keys()
	require.Len(t, keys, 2)
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestRedisRateLimiter_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	_, err := NewRedisRateLimiter(rdb, "test:rl", 1, time.Minute).Allow(context.Background(), "1.1.1.1")
	assert.Error(t, err)
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	levels := map[string]string{}
	for _, p := range []string{"/ok", "/bad", "/boom"} {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, p, entry["path"])
		levels[p] = entry["level"].(string)
	}

	assert.Equal(t, map[string]string{"/ok": "debug", "/bad": "warn", "/boom": "error"}, levels)
}
