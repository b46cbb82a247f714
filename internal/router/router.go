package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/skate-pins/internal/config"
	"github.com/iliyamo/skate-pins/internal/handler"
	"github.com/iliyamo/skate-pins/internal/middleware"
	"github.com/iliyamo/skate-pins/internal/utils"
)

// RegisterRoutes registers routes that do not require an access key: the
// health check and the (cached) map view.
func RegisterRoutes(e *echo.Echo, m *handler.MapHandler, cache config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/map", m.GetMap, middleware.NewRedisCache(cache, rdb))
}

// RegisterPins registers the record store endpoints under /v1/pins.  Every
// route requires an anon or service access key and is rate limited per
// client.
func RegisterPins(e *echo.Echo, p *handler.PinHandler, jwtSecret string, rl config.RateLimitConfig, rdb *redis.Client, logger *zap.Logger) {
	g := e.Group(
		"/v1/pins",
		middleware.AccessKeyAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAnon, utils.RoleService),
		middleware.NewTokenBucket(rl, rdb, logger),
	)
	g.GET("", p.ListPins)
	g.POST("", p.CreatePin)
	g.DELETE("/:id", p.DeletePin)
}
