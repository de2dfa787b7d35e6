package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/app/agent"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/extract"
)

// ErrorHandler maps every error escaping a handler to a structured
// {error} JSON body. Insight failures keep their root cause in the log
// only; the caller sees a generic connectivity message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if apiError, ok := err.(Error); ok {
		return c.Status(apiError.Code).JSON(apiError)
	}
	if valError, ok := err.(ValidationError); ok {
		return c.Status(valError.Status).JSON(valError)
	}

	var (
		reqError *agent.ValidationError
		extError *extract.Error
		insError *agent.InsightError
		fibError *fiber.Error
	)
	switch {
	case errors.As(err, &reqError):
		return c.Status(fiber.StatusBadRequest).JSON(NewError(fiber.StatusBadRequest, reqError.Message))
	case errors.As(err, &extError):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(NewError(fiber.StatusUnprocessableEntity, extError.Hint))
	case errors.As(err, &insError):
		slog.Error("insight query failed", "kind", string(insError.Kind), "error", insError.Detail)
		return c.Status(fiber.StatusBadGateway).JSON(NewError(fiber.StatusBadGateway,
			"the insight service could not be reached, please try again later"))
	case errors.As(err, &fibError):
		return c.Status(fibError.Code).JSON(NewError(fibError.Code, fibError.Message))
	}

	slog.Error("request failed", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(NewError(fiber.StatusInternalServerError, "internal server error"))
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrUnAuthorized(msg string) Error {
	return Error{
		Code:    fiber.StatusUnauthorized,
		Message: msg,
	}
}

func ErrDocumentTooLarge(length, limit int) Error {
	return Error{
		Code:    fiber.StatusRequestEntityTooLarge,
		Message: fmt.Sprintf("document is too long: %d characters exceed the %d character limit", length, limit),
	}
}
