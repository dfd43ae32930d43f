package controller

import (
	"notekeeper-be/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	collector *metrics.Collector
}

func NewHealthController(collector *metrics.Collector) IHealthController {
	return &healthController{collector: collector}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	if c.collector != nil {
		r.Get("/metrics", adaptor.HTTPHandler(c.collector.Handler()))
	}
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(HealthResponse{Status: "OK", Message: "Notes API is running"})
}
