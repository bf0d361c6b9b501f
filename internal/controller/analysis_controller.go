package controller

import (
	"strings"

	"nichelens-be/internal/dto"
	"nichelens-be/internal/pkg/serverutils"
	"nichelens-be/internal/service"
	"nichelens-be/pkg/analysis"

	"github.com/gofiber/fiber/v2"
)

type IAnalysisController interface {
	RegisterRoutes(r fiber.Router)
	Optimize(ctx *fiber.Ctx) error
	Reply(ctx *fiber.Ctx) error
	Audit(ctx *fiber.Ctx) error
	Niche(ctx *fiber.Ctx) error
	Ideate(ctx *fiber.Ctx) error
	Visual(ctx *fiber.Ctx) error
}

type analysisController struct {
	service service.IAnalysisService
}

func NewAnalysisController(service service.IAnalysisService) IAnalysisController {
	return &analysisController{service: service}
}

func (c *analysisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analysis")
	h.Post("/optimize", c.Optimize)
	h.Post("/reply", c.Reply)
	h.Post("/audit", c.Audit)
	h.Post("/niche", c.Niche)
	h.Post("/ideate", c.Ideate)
	h.Post("/visual", c.Visual)
}

func (c *analysisController) Optimize(ctx *fiber.Ctx) error {
	return c.single(ctx, analysis.ModePost)
}

func (c *analysisController) Reply(ctx *fiber.Ctx) error {
	return c.single(ctx, analysis.ModeReply)
}

func (c *analysisController) Ideate(ctx *fiber.Ctx) error {
	return c.single(ctx, analysis.ModeIdeate)
}

func (c *analysisController) Audit(ctx *fiber.Ctx) error {
	return c.multi(ctx, analysis.ModeAudit)
}

func (c *analysisController) Niche(ctx *fiber.Ctx) error {
	return c.multi(ctx, analysis.ModeNiche)
}

func (c *analysisController) single(ctx *fiber.Ctx, mode analysis.Mode) error {
	var req dto.SingleInputRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Input = strings.TrimSpace(req.Input)
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Analyze(ctx.UserContext(), analysis.GatewayRequest{Mode: mode, Input: req.Input})
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Analysis completed", res))
}

func (c *analysisController) multi(ctx *fiber.Ctx, mode analysis.Mode) error {
	var req dto.MultiItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	items, ok := req.List()
	if !ok || len(items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required field: items (array)")
	}

	res, err := c.service.Analyze(ctx.UserContext(), analysis.GatewayRequest{
		Mode:   mode,
		Items:  items,
		Handle: strings.TrimPrefix(strings.TrimSpace(req.Handle), "@"),
	})
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Analysis completed", res))
}

func (c *analysisController) Visual(ctx *fiber.Ctx) error {
	var req dto.VisualRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	image, err := c.service.GenerateVisual(ctx.UserContext(), req.Prompt)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Visual generated", dto.VisualResponse{Image: image}))
}
