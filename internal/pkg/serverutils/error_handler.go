package serverutils

import (
	"errors"
	"net/http"

	"nichelens-be/pkg/analysis"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, message := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// StatusFor maps an error to the status code and message sent to clients.
func StatusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	var malformed *analysis.MalformedResultError
	if errors.As(err, &malformed) {
		return http.StatusBadGateway, analysis.MalformedMessage
	}

	var backend *analysis.BackendError
	if errors.As(err, &backend) {
		code := backend.StatusCode
		if code < 400 {
			code = http.StatusBadGateway
		}
		return code, backend.Message
	}

	var unsupported *analysis.UnsupportedModeError
	if errors.As(err, &unsupported) {
		return http.StatusBadRequest, unsupported.Error()
	}

	if errors.Is(err, analysis.ErrEmptyInput) {
		return http.StatusBadRequest, "Missing required field: input"
	}

	return http.StatusInternalServerError, err.Error()
}
