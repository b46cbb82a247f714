package middleware // package middleware contains reusable HTTP middleware for the pin API

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/skate-pins/internal/utils"
)

// APIKeyHeader is the header hosted-table clients send their key in.
const APIKeyHeader = "apikey"

// AccessKeyAuth validates the store access key and stores its role claim in
// the context under "role".  The key is read from the apikey header first and
// from an "Authorization: Bearer" header otherwise.
func AccessKeyAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := strings.TrimSpace(c.Request().Header.Get(APIKeyHeader))
            if raw == "" {
                auth := c.Request().Header.Get("Authorization")
                if !strings.HasPrefix(auth, "Bearer ") {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing access key"})
                }
                raw = strings.TrimPrefix(auth, "Bearer ")
            }
            role, err := utils.ParseAccessKey(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid access key"})
            }
            c.Set("role", role)
            return next(c)
        }
    }
}
