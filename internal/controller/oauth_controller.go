package controller

import (
	"net/url"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service     service.IOAuthService
	frontendURL string
	logger      logger.ILogger
}

func NewOAuthController(service service.IOAuthService, frontendURL string, log logger.ILogger) IOAuthController {
	return &oauthController{
		service:     service,
		frontendURL: frontendURL,
		logger:      log,
	}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/google")
	h.Get("/login", c.Login)
	h.Get("/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	loginURL, err := c.service.GetLoginURL(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.Redirect(loginURL, fiber.StatusTemporaryRedirect)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	var query dto.GoogleCallbackQuery
	if err := ctx.QueryParser(&query); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.service.HandleCallback(ctx.UserContext(), query.State, query.Code)
	if err != nil {
		return err
	}

	c.logger.Info("OAuth", "Google sign-in completed", map[string]interface{}{"user_id": res.User.Id})

	// Token travels in the query string; the frontend moves it to storage and strips the URL.
	redirectURL := c.frontendURL + "/auth/callback?token=" + url.QueryEscape(res.Token)
	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
