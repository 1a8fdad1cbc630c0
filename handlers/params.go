package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/krishkalaria12/spot-serve/apperr"
	"github.com/krishkalaria12/spot-serve/validation"
)

// paramID reads a positive numeric route parameter. Anything else cannot name
// an existing record, so it is reported as notFound.
func paramID(c *fiber.Ctx, name, notFound string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(notFound)
	}
	return uint(id), nil
}

func badBody(err error, req any) error {
	return validation.Decode(err, req)
}
