package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that shapes every
// error escaping a handler into the standard envelope.  Unknown routes
// become a 404 "Route not found"; anything unexpected becomes a 500 whose
// real message is logged but only surfaced to the client in dev, so no
// internal detail leaks in production.
func NewHTTPErrorHandler(dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch status {
			case http.StatusNotFound:
				message = "Route not found"
			case http.StatusMethodNotAllowed:
				message = "Method not allowed"
			default:
				if s, ok := he.Message.(string); ok && s != "" {
					message = s
				} else if status < http.StatusInternalServerError {
					// Non-string messages on client errors still need a
					// matching text, not the 500 fallback.
					message = http.StatusText(status)
				}
			}
		}

		if status >= http.StatusInternalServerError {
			log.Printf("request failed: %v", err)
			if dev {
				message = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = fail(c, status, message)
	}
}
