package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	md "github.com/Astemirdum/bookshelf-service/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRateLimiter_MemoryStore(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, md.NewRateLimiter(1, nil))

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	require.Equal(t, http.StatusOK, codes[0])
	require.Contains(t, codes, http.StatusTooManyRequests)
}

func TestRedisStore_FailOpen(t *testing.T) {
	t.Parallel()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	store := md.NewRedisStore(rdb, "test", 10, 10, zap.NewNop())
	allowed, err := store.Allow("127.0.0.1")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestRequestLoggerConfig(t *testing.T) {
	t.Parallel()
	cfg := md.RequestLoggerConfig(zap.NewNop())
	require.True(t, cfg.LogRequestID)
	require.True(t, cfg.HandleError)
	require.NotNil(t, cfg.LogValuesFunc)
}
