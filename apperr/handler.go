package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/krishkalaria12/spot-serve/logging"
)

// Handler is the application's fiber.ErrorHandler. Every handler returns its
// error here instead of writing error responses itself.
func Handler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		body := fiber.Map{"message": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		if appErr.Kind == KindInternal {
			logging.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}
		return c.Status(appErr.Kind.Status()).JSON(body)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	logging.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}
