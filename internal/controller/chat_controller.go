package controller

import (
	"greenregu-be/internal/dto"
	"greenregu-be/internal/pkg/serverutils"
	"greenregu-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	guards      []fiber.Handler
}

// NewChatController registers its routes behind guards, normally the JWT and
// rate limit middlewares.
func NewChatController(chatService service.IChatService, guards ...fiber.Handler) IChatController {
	return &chatController{
		chatService: chatService,
		guards:      guards,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.chain(c.Chat)...)
	r.Get("/conversations/:id", c.chain(c.History)...)
}

func (c *chatController) chain(h fiber.Handler) []fiber.Handler {
	return append(append([]fiber.Handler{}, c.guards...), h)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid conversation id")
	}

	res, err := c.chatService.History(ctx.UserContext(), serverutils.UserID(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation", res))
}
