package controller

import (
	"errors"
	"io"

	"derma-triage-be/internal/dto"
	"derma-triage-be/internal/pkg/serverutils"
	"derma-triage-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	CreateConversation(ctx *fiber.Ctx) error
	GetAllConversations(ctx *fiber.Ctx) error
	GetTurnHistory(ctx *fiber.Ctx) error
	SendTurn(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
}

type chatbotController struct {
	triageService service.ITriageService
}

func NewChatbotController(triageService service.ITriageService) IChatbotController {
	return &chatbotController{
		triageService: triageService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot/v1")
	h.Post("conversation", c.CreateConversation)
	h.Get("conversations", c.GetAllConversations)
	h.Get("conversation/:id/history", c.GetTurnHistory)
	h.Post("conversation/:id/turn", c.SendTurn)
	h.Delete("conversation/:id", c.DeleteConversation)
}

func (c *chatbotController) CreateConversation(ctx *fiber.Ctx) error {
	res, err := c.triageService.CreateConversation(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create conversation", res))
}

func (c *chatbotController) GetAllConversations(ctx *fiber.Ctx) error {
	res, err := c.triageService.GetAllConversations(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetching conversations", res))
}

func (c *chatbotController) GetTurnHistory(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid conversation ID"))
	}

	res, err := c.triageService.GetTurnHistory(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Conversation not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetching history", res))
}

func (c *chatbotController) SendTurn(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid conversation ID"))
	}

	req := dto.SendTurnRequest{
		ConversationId: id,
		Message:        ctx.FormValue("message"),
	}

	// Image is optional; a turn may be text only
	if file, err := ctx.FormFile("image"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Failed to read image file"))
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Failed to read image file"))
		}
		req.ImageFilename = file.Filename
		req.ImageData = data
	}

	res, err := c.triageService.SendTurn(ctx.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTurn):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Turn must carry text or an image"))
		case errors.Is(err, service.ErrConversationNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Conversation not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success sending turn", res))
}

func (c *chatbotController) DeleteConversation(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid conversation ID"))
	}

	if err := c.triageService.DeleteConversation(ctx.Context(), id); err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Conversation not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation deleted", nil))
}
