package middleware

// identity.go holds the identity extraction shared by the rate-limit
// and cache key builders.  JWTAuth stores the raw "sub" claim under
// "user_id"; unauthenticated requests key as "anon".

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's identifier as a
// string, or "anon" when the request carries no valid token.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch s := v.(type) {
    case string:
        if s != "" {
            return s
        }
    case float64:
        return fmt.Sprintf("%.0f", s)
    }
    return "anon"
}
