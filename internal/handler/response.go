package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/velizarh/taskboard/internal/validator"
)

// Every endpoint answers with the same envelope:
//
//	{"success": bool, "message"?: string, "data"?: {...}, "errors"?: [{field, message}]}
//
// The helpers below keep handlers from assembling it by hand.

// FieldError is one entry of the errors list in a validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respond(c echo.Context, status int, message string, data any) error {
	body := echo.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// failValidation renders a 400 with per-field messages.  Fields are sorted
// so the response is deterministic.
func failValidation(c echo.Context, errs validator.ValidationErrors) error {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	list := make([]FieldError, 0, len(errs))
	for _, f := range fields {
		list = append(list, FieldError{Field: f, Message: errs[f]})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  list,
	})
}
