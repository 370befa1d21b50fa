package middleware

// identity.go defines helper functions shared across middleware files. It
// provides a userID extraction function that reads the "user_id" value the
// JWT middleware stored in the Echo context. When no user is authenticated,
// "anon" is returned. The rate limiter uses this to build per-user keys.

import (
	"github.com/labstack/echo/v4"
)

// userID extracts the authenticated user id from context, or "anon".
func userID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
