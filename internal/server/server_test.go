package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/video-hunter/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHealth bool

func (h staticHealth) Healthy(context.Context) bool { return bool(h) }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		healthy bool
		want    int
	}{
		{name: "healthy", healthy: true, want: http.StatusOK},
		{name: "unhealthy", healthy: false, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&Config{Port: "8080", CorsOrigins: []string{"*"}}, staticHealth(tt.healthy)).
				SetupHealthChecks("/health")

			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	s := New(&Config{Port: "8080", CorsOrigins: []string{"*"}}, staticHealth(true)).
		SetupMiddlewares().
		SetupErrorHandler()

	s.Echo.GET("/bad", func(c echo.Context) error {
		return apperr.NewValidation("query parameter is required")
	})

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query parameter is required")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV_PATH", "does-not-exist.env")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)

	t.Setenv("PORT", "70000")
	_, err = LoadConfig()
	assert.Error(t, err)
}
