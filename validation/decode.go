package validation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/krishkalaria12/spot-serve/apperr"
)

// Decode converts a body parsing failure for v into an API error. A value of
// the wrong JSON type is reported against its field like any other
// validation failure; anything else is a plain 400.
func Decode(err error, v any) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		name := typeErr.Field
		if m, ok := v.(Messenger); ok {
			if msg, ok := m.Messages()[name]; ok {
				return apperr.Validation(map[string]string{name: msg})
			}
		}
		return apperr.Validation(map[string]string{name: fmt.Sprintf("%s is invalid", name)})
	}
	return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
}
