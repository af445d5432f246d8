package controller

import (
	"io"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/pkg/serverutils"
	"ai-taskmanager-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	service  service.IDocumentService
	auth     fiber.Handler
	maxBytes int64
}

func NewDocumentController(service service.IDocumentService, auth fiber.Handler, maxBytes int64) IDocumentController {
	return &documentController{service: service, auth: auth, maxBytes: maxBytes}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agentic/v1/files")
	h.Use(c.auth)
	h.Post("/upload", c.Upload)
	h.Get("", c.GetAll)
	h.Get("/:id", c.Show)
	h.Delete("/:id", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return service.ErrDocumentEmptyUpload
	}
	if c.maxBytes > 0 && fh.Size > c.maxBytes {
		return service.ErrDocumentTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	// One extra byte lets the service see an oversized body.
	data, err := io.ReadAll(io.LimitReader(f, c.maxBytes+1))
	if err != nil {
		return err
	}

	res, err := c.service.Upload(ctx.UserContext(), userId, &dto.UploadDocumentRequest{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Файл успешно загружен и готов для анализа", res))
}

func (c *documentController) GetAll(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get files", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetInfo(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get file", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), userId, ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Файл и история чата успешно удалены", fiber.Map{"file_id": ctx.Params("id")}))
}
