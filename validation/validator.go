// Package validation wraps a shared go-playground validator and converts its
// failures into field-keyed apperr validation errors.
//
// Request types may implement Messages to supply the text reported for each
// JSON field; fields without an entry fall back to a message built from the
// failing tag.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/krishkalaria12/spot-serve/apperr"
)

// Messenger is implemented by request types that carry their own messages,
// keyed by JSON field name.
type Messenger interface {
	Messages() map[string]string
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Struct validates v. It returns nil, an *apperr.Error of kind validation, or
// the validator's own error for invalid input (a nil or non-struct value).
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var custom map[string]string
	if m, ok := v.(Messenger); ok {
		custom = m.Messages()
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		if msg, ok := custom[name]; ok {
			fields[name] = msg
			continue
		}
		fields[name] = defaultMessage(fe)
	}
	return apperr.Validation(fields)
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return "Invalid email"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
