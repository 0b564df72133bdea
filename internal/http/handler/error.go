package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kioskdesk/internal/csvio"
	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/logging"
	"kioskdesk/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "KIOSK_NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorDetails(c, status, code, message, nil)
}

func writeErrorDetails(c *fiber.Ctx, status int, code, message string, details any) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// fail translates a service error into a response. Unknown errors are logged
// and answered with 500.
func fail(c *fiber.Ctx, err error) error {
	var (
		csvErrs  csvio.Errors
		valErr   *service.ValidationError
		notFound *service.NotFoundError
	)
	switch {
	case errors.As(err, &csvErrs):
		return writeErrorDetails(c, fiber.StatusUnprocessableEntity, "CSV_INVALID",
			fmt.Sprintf("csv file has %d invalid rows or fields", len(csvErrs)), []csvio.RowError(csvErrs))
	case errors.Is(err, csvio.ErrEmpty):
		return writeError(c, fiber.StatusBadRequest, "CSV_EMPTY", err.Error())
	case errors.As(err, &valErr):
		return writeErrorDetails(c, fiber.StatusBadRequest, "VALIDATION_ERROR", valErr.Error(), []*service.ValidationError{valErr})
	case errors.As(err, &notFound):
		return writeError(c, fiber.StatusNotFound, strings.ToUpper(notFound.Resource)+"_NOT_FOUND", notFound.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrLastAdmin):
		return writeError(c, fiber.StatusConflict, "LAST_ADMIN", err.Error())
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", strings.TrimPrefix(err.Error(), service.ErrConflict.Error()+": "))
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "not allowed")
	case errors.Is(err, service.ErrTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "payload too large")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}

	logging.Error(c.UserContext(), "request failed", err,
		"method", c.Method(), "path", c.Path())
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if !errors.As(err, &e) {
			return fail(c, err)
		}

		switch e.Code {
		case fiber.StatusBadRequest:
			return writeError(c, e.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, e.Code, "UNAUTHENTICATED", "authentication required")
		case fiber.StatusForbidden:
			return writeError(c, e.Code, "FORBIDDEN", "not allowed")
		case fiber.StatusNotFound:
			return writeError(c, e.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, e.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, e.Code, "PAYLOAD_TOO_LARGE", "payload too large")
		case fiber.StatusUnprocessableEntity:
			return writeError(c, e.Code, "UNPROCESSABLE_ENTITY", "unprocessable entity")
		case fiber.StatusServiceUnavailable:
			return writeError(c, e.Code, "SERVICE_UNAVAILABLE", "dependency unavailable")
		default:
			if e.Code < fiber.StatusInternalServerError {
				return writeError(c, e.Code, "REQUEST_ERROR", e.Message)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
