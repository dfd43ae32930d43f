package serverutils

import (
	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

func ValidateRequest(req interface{}) error {
	return validation.Struct(req)
}

// ParseBody decodes the JSON body into out. A malformed body is a validation
// failure on the "body" field rather than a bare 400 from Fiber.
func ParseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.NewValidation(apperror.FieldError{Field: "body", Message: "must be a valid JSON object"})
	}
	return nil
}
