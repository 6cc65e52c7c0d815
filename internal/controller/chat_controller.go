package controller

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront-be/internal/constant"
	"storefront-be/internal/dto"
	"storefront-be/internal/pkg/logger"
	"storefront-be/internal/pkg/serverutils"
	"storefront-be/internal/service"
	"storefront-be/pkg/assistant"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	socketReadLimit = 4096
	socketIdleWait  = 5 * time.Minute
)

// InsightsSource exposes the aggregated turn statistics.
type InsightsSource interface {
	Snapshot() service.ChatInsights
}

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Insights(ctx *fiber.Ctx) error
}

type chatController struct {
	service   service.IChatService
	insights  InsightsSource
	jwtSecret string
	logger    logger.ILogger
}

// NewChatController builds the chat routes. insights may be nil when the
// event bus is not configured.
func NewChatController(service service.IChatService, insights InsightsSource, jwtSecret string, logger logger.ILogger) IChatController {
	return &chatController{
		service:   service,
		insights:  insights,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("", serverutils.NewOptionalJwtMiddleware(c.jwtSecret), c.Chat)
	h.Get("/history", serverutils.NewJwtMiddleware(c.jwtSecret), c.History)
	h.Get("/insights", c.Insights)
	h.Get("/ws", requireUpgrade, serverutils.NewOptionalJwtMiddleware(c.jwtSecret), websocket.New(c.socket))
}

func requireUpgrade(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Chat answers one turn. Every failure returns the apology body with the same
// shape as a successful reply.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(service.EmptyChatResponse(constant.ChatApologyMessage))
	}
	if userId := serverutils.UserIDFromLocals(ctx); userId != "" {
		req.UserId = userId
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(service.EmptyChatResponse(constant.ChatApologyMessage))
	}

	res, err := c.service.HandleTurn(ctx.UserContext(), &req)
	if errors.Is(err, assistant.ErrValidation) {
		return ctx.Status(fiber.StatusBadRequest).JSON(service.EmptyChatResponse(constant.ChatApologyMessage))
	}
	if err != nil {
		c.logger.Error("ChatController", "Chat turn failed", map[string]interface{}{
			"user_id": req.UserId,
			"error":   err,
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(service.EmptyChatResponse(constant.ChatApologyMessage))
	}

	return ctx.JSON(res)
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	res, err := c.service.GetHistory(ctx.UserContext(), serverutils.UserIDFromLocals(ctx))
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "No conversation yet")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) Insights(ctx *fiber.Ctx) error {
	snapshot := service.ChatInsights{ByRule: map[string]int{}, UnmatchedTerms: []service.TermCount{}}
	if c.insights != nil {
		snapshot = c.insights.Snapshot()
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat insights", snapshot))
}

// socket runs one turn per inbound frame. The user comes from the token when
// present, else from the userId query parameter.
func (c *chatController) socket(conn *websocket.Conn) {
	userId, _ := conn.Locals(serverutils.LocalUserID).(string)
	if userId == "" {
		userId = conn.Query("userId")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		conn.Close()
	}()

	conn.SetReadLimit(socketReadLimit)
	for {
		conn.SetReadDeadline(time.Now().Add(socketIdleWait))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ChatController", "Chat socket closed unexpectedly", map[string]interface{}{
					"user_id": userId,
					"error":   err,
				})
			}
			return
		}

		var frame dto.ChatSocketFrame
		var reply *dto.ChatResponse
		if err := json.Unmarshal(raw, &frame); err != nil {
			reply = service.EmptyChatResponse(constant.ChatApologyMessage)
		} else if reply, err = c.service.HandleTurn(ctx, &dto.ChatRequest{Message: frame.Message, UserId: userId}); err != nil {
			c.logger.Error("ChatController", "Chat socket turn failed", map[string]interface{}{
				"user_id": userId,
				"error":   err,
			})
			reply = service.EmptyChatResponse(constant.ChatApologyMessage)
		}

		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}
