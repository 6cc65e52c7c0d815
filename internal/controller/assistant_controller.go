package controller

import (
	"errors"

	"storefront-be/internal/dto"
	"storefront-be/internal/pkg/logger"
	"storefront-be/internal/pkg/serverutils"
	"storefront-be/internal/service"
	"storefront-be/pkg/assistant/advisor"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type assistantController struct {
	service   service.IAssistantService
	jwtSecret string
	logger    logger.ILogger
}

func NewAssistantController(service service.IAssistantService, jwtSecret string, logger logger.ILogger) IAssistantController {
	return &assistantController{service: service, jwtSecret: jwtSecret, logger: logger}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat/assistant", serverutils.NewOptionalJwtMiddleware(c.jwtSecret), c.Ask)
}

// Ask forwards the message and candidates to the language model. Quota
// exhaustion is left to the error middleware (429).
func (c *assistantController) Ask(ctx *fiber.Ctx) error {
	var req dto.AssistantRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	subject := serverutils.UserIDFromLocals(ctx)
	if subject == "" {
		subject = "ip:" + ctx.IP()
	}

	res, err := c.service.Advise(ctx.UserContext(), subject, &req)
	if err != nil {
		var limitErr *dto.LimitExceededError
		if errors.As(err, &limitErr) {
			return err
		}
		c.logger.Error("AssistantController", "Assistant request failed", map[string]interface{}{
			"subject": subject,
			"error":   err,
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"text": advisor.NoConnectText})
	}

	return ctx.JSON(res)
}
