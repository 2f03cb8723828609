package middleware

import (
	"net/http"

	"github.com/bilgisen/newscast/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validator wraps a validator instance for request bodies.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the given struct against its tags.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// Fields extracts a field-to-tag map from a validation error, for responses.
func (v *Validator) Fields(err error) map[string]string {
	fields := make(map[string]string)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

// ErrorHandler handles fiber errors in a consistent way.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": http.StatusText(code),
	})
}
