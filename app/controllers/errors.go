package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// apiError is a failure already mapped to an HTTP status.
type apiError struct {
	status  int
	message string
	err     error
}

func newAPIError(status int, message string, err error) *apiError {
	return &apiError{status: status, message: message, err: err}
}

func (e *apiError) Error() string {
	if e.err != nil {
		return e.message + ": " + e.err.Error()
	}
	return e.message
}

func (e *apiError) Unwrap() error { return e.err }

func (e *apiError) send(c *fiber.Ctx) error {
	return errorResponse(c, e.status, e.message, e.err)
}

// asAPIError keeps an already mapped error and turns anything else into a 500.
func asAPIError(err error, message string) *apiError {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return newAPIError(fiber.StatusInternalServerError, message, err)
}

// errorResponse writes the {message, error} error body.
func errorResponse(c *fiber.Ctx, status int, message string, err error) error {
	detail := message
	if err != nil {
		detail = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   detail,
	})
}
