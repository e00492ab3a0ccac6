package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/echovault/echovault/pkg/jwt"
)

// UserIDContextKey is the echo context key the authenticated user id is set under
const UserIDContextKey = "user_id"

// EchoAuth returns an Echo middleware that validates the bearer token and
// sets "user_id" (uuid.UUID) into the Echo context. Identity arrives as a
// token; there are no login screens in this service.
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(UserIDContextKey, claims.UserID)
			return next(c)
		}
	}
}

// GetUserID retrieves the authenticated user id from the Echo context
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(UserIDContextKey).(uuid.UUID)
	return id, ok
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the access_token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}
