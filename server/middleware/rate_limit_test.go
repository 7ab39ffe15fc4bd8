package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter()

	// Burst of 5 passes, the sixth immediate request is rejected.
	for i := 0; i < 5; i++ {
		require.True(t, rl.Allow("10.0.0.1"))
	}
	require.False(t, rl.Allow("10.0.0.1"))

	// Independent keys have independent budgets.
	require.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter()
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	}, rl.Middleware())

	status := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.168.1.7:5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, status())
	}
	require.Equal(t, http.StatusTooManyRequests, status())
}
