package controller

import (
	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/pkg/serverutils"
	"ai-taskmanager-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	GetCompleted(ctx *fiber.Ctx) error
	GetPending(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	MarkCompleted(ctx *fiber.Ctx) error
	MarkPending(ctx *fiber.Ctx) error
}

type taskController struct {
	service service.ITaskService
	auth    fiber.Handler
}

func NewTaskController(service service.ITaskService, auth fiber.Handler) ITaskController {
	return &taskController{service: service, auth: auth}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tasks/v1")
	h.Use(c.auth)
	h.Get("", c.GetAll)
	h.Get("/completed", c.GetCompleted)
	h.Get("/pending", c.GetPending)
	h.Post("", c.Create)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
	h.Patch("/:id/complete", c.MarkCompleted)
	h.Patch("/:id/pending", c.MarkPending)
}

func (c *taskController) list(ctx *fiber.Ctx, completed *bool) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), userId, completed)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get tasks", res))
}

func (c *taskController) GetAll(ctx *fiber.Ctx) error {
	return c.list(ctx, nil)
}

func (c *taskController) GetCompleted(ctx *fiber.Ctx) error {
	completed := true
	return c.list(ctx, &completed)
}

func (c *taskController) GetPending(ctx *fiber.Ctx) error {
	completed := false
	return c.list(ctx, &completed)
}

func (c *taskController) Show(ctx *fiber.Ctx) error {
	userId, taskId, err := userAndTaskId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), userId, taskId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show task", res))
}

func (c *taskController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create task", res))
}

func (c *taskController) Update(ctx *fiber.Ctx) error {
	userId, taskId, err := userAndTaskId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Id = taskId

	res, err := c.service.Update(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update task", res))
}

func (c *taskController) Delete(ctx *fiber.Ctx) error {
	userId, taskId, err := userAndTaskId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), userId, taskId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete task", nil))
}

func (c *taskController) MarkCompleted(ctx *fiber.Ctx) error {
	return c.setCompleted(ctx, true)
}

func (c *taskController) MarkPending(ctx *fiber.Ctx) error {
	return c.setCompleted(ctx, false)
}

func (c *taskController) setCompleted(ctx *fiber.Ctx, completed bool) error {
	userId, taskId, err := userAndTaskId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.SetCompleted(ctx.UserContext(), userId, taskId, completed)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update task status", res))
}

func userAndTaskId(ctx *fiber.Ctx) (uint, uint, error) {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return 0, 0, err
	}
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid task id")
	}
	return userId, uint(id), nil
}
