package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/skate-pins/internal/config"
	"github.com/iliyamo/skate-pins/internal/handler"
	"github.com/iliyamo/skate-pins/internal/middleware"
	"github.com/iliyamo/skate-pins/internal/repository"
	"github.com/iliyamo/skate-pins/internal/testdb"
	"github.com/iliyamo/skate-pins/internal/utils"
)

func TestRoutes(t *testing.T) {
	const secret = "router-secret"
	e := echo.New()
	RegisterRoutes(e, &handler.MapHandler{Map: config.DefaultMapConfig()}, config.CacheConfig{}, nil)
	pins := handler.NewPinHandler(repository.NewPinRepo(testdb.Open(t)), nil, zap.NewNop())
	RegisterPins(e, pins, secret, config.RateLimitConfig{}, nil, zap.NewNop())

	key, err := utils.NewAccessKey(secret, utils.RoleAnon, 0)
	require.NoError(t, err)

	send := func(method, path, body string, withKey bool) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if withKey {
			req.Header.Set(middleware.APIKeyHeader, key.Token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/healthz", "", false))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/v1/map", "", false))
	assert.Equal(t, http.StatusUnauthorized, send(http.MethodGet, "/v1/pins", "", false))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/v1/pins", "", true))
	assert.Equal(t, http.StatusCreated, send(http.MethodPost, "/v1/pins", `{"lat":1,"lng":2,"type":"street"}`, true))
	assert.Equal(t, http.StatusNoContent, send(http.MethodDelete, "/v1/pins/1", "", true))
}
