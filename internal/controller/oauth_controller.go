package controller

import (
	"net/url"
	"strings"

	"nichelens-be/internal/pkg/logger"
	"nichelens-be/internal/pkg/serverutils"
	"nichelens-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
}

type oauthController struct {
	service   service.IOAuthService
	auth      fiber.Handler
	clientURL string
	logger    logger.ILogger
}

func NewOAuthController(service service.IOAuthService, auth fiber.Handler, clientURL string, logger logger.ILogger) IOAuthController {
	return &oauthController{service: service, auth: auth, clientURL: clientURL, logger: logger}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Get("/session", c.auth, c.Session)
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	loginURL, err := c.service.GetLoginURL(provider)
	if err != nil {
		return err
	}
	return ctx.Redirect(loginURL, fiber.StatusTemporaryRedirect)
}

// Callback finishes the login and hands the token back to the client's
// redirect target as ?token=, or ?error= when sign-in failed.
func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	state := ctx.Query("state")

	if denied := ctx.Query("error"); denied != "" {
		return ctx.Redirect(c.redirectURL("error", denied), fiber.StatusTemporaryRedirect)
	}
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing code")
	}

	token, err := c.service.HandleCallback(ctx.UserContext(), provider, code, state)
	if err != nil {
		c.logger.Error("OAUTH", "Callback failed", map[string]interface{}{"provider": provider, "error": err.Error()})
		_, msg := serverutils.StatusFor(err)
		return ctx.Redirect(c.redirectURL("error", msg), fiber.StatusTemporaryRedirect)
	}

	return ctx.Redirect(c.redirectURL("token", token), fiber.StatusTemporaryRedirect)
}

func (c *oauthController) Session(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSession(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", res))
}

func (c *oauthController) redirectURL(key, value string) string {
	sep := "?"
	if strings.Contains(c.clientURL, "?") {
		sep = "&"
	}
	return c.clientURL + sep + key + "=" + url.QueryEscape(value)
}
