package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
)

const (
	msgInternalError    = "Internal Server Error"
	msgInvalidBody      = "Invalid request body"
	msgValidationFailed = "Validation failed"
	msgUnauthorized     = "Unauthorized"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respondOK(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

// respondInvalid answers 422 with per-field messages. Errors that are not field
// errors go to the error handler.
func respondInvalid(c *fiber.Ctx, err error) error {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return err
	}

	messages := make(map[string]string, len(fields))
	for field, ferr := range fields {
		messages[field] = ferr.Error()
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Response{
		Success: false,
		Message: msgValidationFailed,
		Errors:  messages,
	})
}
