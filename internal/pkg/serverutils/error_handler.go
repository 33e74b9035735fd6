package serverutils

import (
	"errors"

	"greenregu-be/internal/entity"
	"greenregu-be/pkg/chunking"
	"greenregu-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by downstream handlers into
// the JSON error envelope.
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

// StatusFor maps an error to its HTTP status and client-facing message.
func StatusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest, validationErr.Error()
	}

	var backendErr *rag.BackendError
	if errors.As(err, &backendErr) {
		if backendErr.Timeout() {
			return fiber.StatusGatewayTimeout, backendErr.Backend + " backend timed out"
		}
		return fiber.StatusBadGateway, backendErr.Backend + " backend unavailable"
	}

	switch {
	case errors.Is(err, entity.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, entity.ErrInvalidUpload):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, entity.ErrAlreadyRunning):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, chunking.ErrUnreadablePDF):
		return fiber.StatusUnprocessableEntity, err.Error()
	}
	return fiber.StatusInternalServerError, "internal server error"
}
