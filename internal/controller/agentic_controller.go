package controller

import (
	"errors"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/pkg/apperror"
	"ai-taskmanager-be/internal/pkg/serverutils"
	"ai-taskmanager-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAgenticController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
	GetStrategies(ctx *fiber.Ctx) error
	GetInteractions(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type agenticController struct {
	service service.IAgenticService
	auth    fiber.Handler
}

func NewAgenticController(service service.IAgenticService, auth fiber.Handler) IAgenticController {
	return &agenticController{service: service, auth: auth}
}

func (c *agenticController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agentic/v1")
	h.Get("/health", c.Health)
	h.Post("/ask", c.auth, c.Ask)
	h.Get("/history/:id", c.auth, c.GetHistory)
	h.Delete("/history/:id", c.auth, c.ClearHistory)
	h.Get("/strategies", c.auth, c.GetStrategies)
	h.Get("/interactions", c.auth, c.GetInteractions)
}

func (c *agenticController) Ask(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.UserContext(), userId, req.FileId, req.Question)
	if err != nil {
		var appErr *apperror.Error
		if !errors.As(err, &appErr) {
			return err
		}
		return ctx.Status(appErr.Code).JSON(dto.AskErrorResponse{
			Error:      appErr.Message,
			DocumentId: req.FileId,
			Question:   req.Question,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

func (c *agenticController) GetHistory(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetHistory(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *agenticController) ClearHistory(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ClearHistory(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *agenticController) GetStrategies(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get strategies", c.service.ListStrategies()))
}

func (c *agenticController) GetInteractions(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)
	return ctx.JSON(serverutils.SuccessResponse("Success get interactions", c.service.Interactions(limit)))
}

func (c *agenticController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Health())
}
