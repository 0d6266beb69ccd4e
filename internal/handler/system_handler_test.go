package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/siriuscareer/career-admin/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSystemAPI(checks map[string]Check) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler("Career Admin API", "1.2.3", checks, zerolog.Nop())

	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/health/live", h.Live)
	r.GET("/health/ready", h.Ready)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSystemHandler_Root(t *testing.T) {
	w := get(setupSystemAPI(nil), "/")
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]string
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "Career Admin API", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
}

func TestSystemHandler_HealthAndLive(t *testing.T) {
	r := setupSystemAPI(nil)

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Contains(t, health, "runtime")

	assert.Equal(t, http.StatusOK, get(r, "/health/live").Code)
}

func TestSystemHandler_Ready(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all up", func(t *testing.T) {
		w := get(setupSystemAPI(map[string]Check{"postgres": ok, "redis": ok}), "/health/ready")
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
		assert.Equal(t, "ready", data.Status)
		assert.Equal(t, map[string]string{"postgres": "up", "redis": "up"}, data.Checks)
	})

	t.Run("one down", func(t *testing.T) {
		w := get(setupSystemAPI(map[string]Check{"postgres": ok, "redis": down}), "/health/ready")
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, response.ErrServiceUnavailable, env.Error.Code)
		assert.Equal(t, "connection refused", env.Error.Fields["redis"])
		assert.NotContains(t, env.Error.Fields, "postgres")
	})
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m 42s", formatDuration(42*time.Second))
	assert.Equal(t, "2h 3m 4s", formatDuration(2*time.Hour+3*time.Minute+4*time.Second))
	assert.Equal(t, "1d 1h 0m 0s", formatDuration(25*time.Hour))
}
