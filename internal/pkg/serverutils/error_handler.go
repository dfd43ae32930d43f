package serverutils

import (
	"errors"

	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "Something went wrong on the server"

// ErrorHandler is installed as fiber.Config.ErrorHandler. Handlers just return
// errors; this is the only place that turns them into status codes.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var (
			vErr *apperror.ValidationError
			cErr *apperror.ConflictError
			aErr *apperror.AuthError
			nErr *apperror.NotFoundError
			fErr *fiber.Error
		)

		switch {
		case errors.As(err, &vErr):
			return ctx.Status(fiber.StatusBadRequest).JSON(Error("Invalid input", vErr.Fields...))
		case errors.As(err, &cErr):
			return ctx.Status(fiber.StatusBadRequest).JSON(Error(cErr.Message))
		case errors.As(err, &aErr):
			if aErr.Cause != nil {
				log.Debug("HTTP", "authentication rejected", map[string]interface{}{
					"path":  ctx.Path(),
					"error": aErr.Cause,
				})
			}
			return ctx.Status(fiber.StatusUnauthorized).JSON(Error(aErr.Message))
		case errors.As(err, &nErr):
			return ctx.Status(fiber.StatusNotFound).JSON(Error(nErr.Error()))
		case errors.As(err, &fErr):
			return ctx.Status(fErr.Code).JSON(Error(fErr.Message))
		}

		log.Error("HTTP", "unhandled error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err,
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(Error(internalErrorMessage))
	}
}
