package middleware

import "github.com/labstack/echo/v4"

// currentRole returns the access key role stored by AccessKeyAuth, or "guest"
// on routes that do not require a key.
func currentRole(c echo.Context) string {
    if s, ok := c.Get("role").(string); ok && s != "" {
        return s
    }
    return "guest"
}
