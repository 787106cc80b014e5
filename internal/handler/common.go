package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts the authenticated user's ID placed in the context
// by the JWTAuth middleware.
func currentUserID(c echo.Context) (string, error) {
	if id, ok := c.Get("user_id").(string); ok && id != "" {
		return id, nil
	}
	return "", errors.New("no authenticated user in context")
}
