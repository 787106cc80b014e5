package middleware // middleware provides reusable HTTP middleware functions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/velizarh/taskboard/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer session token
// and injects the token's subject into the request context under
// "user_id".  The provided secret must match the one used when issuing
// tokens.  Requests without a valid token never reach the wrapped
// handlers: a missing header, an expired token and a malformed or
// forged token all answer 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "Authentication required")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return unauthorized(c, "Token has expired")
				}
				return unauthorized(c, "Invalid token")
			}

			c.Set("user_id", uid)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"success": false,
		"message": message,
	})
}
