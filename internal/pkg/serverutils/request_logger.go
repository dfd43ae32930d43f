package serverutils

import (
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request after the error handler has set the status.
func RequestLogger(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		if err != nil {
			if handlerErr := ctx.App().ErrorHandler(ctx, err); handlerErr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		details := map[string]interface{}{
			"method":     ctx.Method(),
			"path":       ctx.Path(),
			"status":     ctx.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         ctx.IP(),
		}
		if id, ok := ctx.Locals(LocalUserID).(interface{ String() string }); ok {
			details["user_id"] = id.String()
		}

		if ctx.Response().StatusCode() >= fiber.StatusInternalServerError {
			log.Warn("HTTP", "request failed", details)
		} else {
			log.Info("HTTP", "request", details)
		}
		return nil
	}
}

// Metrics records request count and latency against the matched route pattern,
// keeping label cardinality bounded.
func Metrics(collector *metrics.Collector) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		if err != nil {
			if handlerErr := ctx.App().ErrorHandler(ctx, err); handlerErr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := ctx.Route().Path
		if route == "" {
			route = "unmatched"
		}
		collector.ObserveRequest(ctx.Method(), route, ctx.Response().StatusCode(), time.Since(start))
		return nil
	}
}
