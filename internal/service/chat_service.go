package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront-be/internal/constant"
	"storefront-be/internal/dto"
	"storefront-be/internal/entity"
	"storefront-be/internal/pkg/logger"
	"storefront-be/pkg/assistant"
	"storefront-be/pkg/assistant/compose"
	"storefront-be/pkg/assistant/expand"
	"storefront-be/pkg/assistant/match"
	"storefront-be/pkg/events"
)

const chatModule = "ChatService"

// EventPublisher delivers domain events to the bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ConversationReader returns a user's latest conversation, or nil.
type ConversationReader interface {
	Latest(ctx context.Context, userId string) (*entity.Conversation, error)
}

type IChatService interface {
	HandleTurn(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(ctx context.Context, userId string) (*dto.ConversationResponse, error)
}

type chatService struct {
	expander    *expand.Expander
	matcher     *match.Matcher
	composer    *compose.Composer
	transcripts TranscriptSink
	history     ConversationReader
	publisher   EventPublisher
	logger      logger.ILogger
}

// NewChatService wires the turn pipeline. publisher may be nil.
func NewChatService(
	expander *expand.Expander,
	matcher *match.Matcher,
	composer *compose.Composer,
	transcripts TranscriptSink,
	history ConversationReader,
	publisher EventPublisher,
	logger logger.ILogger,
) IChatService {
	return &chatService{
		expander:    expander,
		matcher:     matcher,
		composer:    composer,
		transcripts: transcripts,
		history:     history,
		publisher:   publisher,
		logger:      logger,
	}
}

// EmptyChatResponse is the failure body for POST /api/chat.
func EmptyChatResponse(message string) *dto.ChatResponse {
	return &dto.ChatResponse{
		Message:            message,
		Products:           []dto.ProductResponse{},
		DiscountedProducts: []dto.ProductResponse{},
	}
}

// HandleTurn expands the message, matches the catalog, composes the reply and
// records the transcript. A transcript failure is logged and does not fail
// the turn.
func (s *chatService) HandleTurn(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	userId := strings.TrimSpace(req.UserId)
	if strings.TrimSpace(req.Message) == "" || userId == "" {
		return nil, fmt.Errorf("%w: message and userId are required", assistant.ErrValidation)
	}

	started := time.Now()
	query := s.expander.Expand(req.Message)

	general, discounted, err := s.matcher.MatchBoth(ctx, query.Terms)
	if err != nil {
		return nil, err
	}

	reply := s.composer.Compose(req.Message, general, discounted)

	// The caller may go away after the reply is computed; the write still happens.
	if err := s.transcripts.Record(context.WithoutCancel(ctx), userId, req.Message, reply.Text); err != nil {
		s.logger.Warn(chatModule, "Transcript write failed, reply still returned", map[string]interface{}{
			"user_id": userId,
			"error":   err,
		})
	}

	s.publishTurn(ctx, userId, query, general, discounted, reply, time.Since(started))

	return &dto.ChatResponse{
		Message:            reply.Text,
		Products:           toProductResponses(general.Items()),
		DiscountedProducts: toProductResponses(discounted.Items()),
	}, nil
}

func (s *chatService) publishTurn(
	ctx context.Context,
	userId string,
	query expand.Query,
	general, discounted *match.MatchSet,
	reply compose.Reply,
	took time.Duration,
) {
	details := map[string]interface{}{
		"user_id":          userId,
		"terms":            len(query.Terms),
		"general_matches":  general.Len(),
		"discount_matches": discounted.Len(),
		"rule":             string(reply.Rule),
		"duration_ms":      took.Milliseconds(),
	}
	s.logger.Info(chatModule, "Chat turn completed", details)

	if s.publisher == nil {
		return
	}
	seen := map[string]struct{}{}
	topics := make([]string, 0, len(query.Topics))
	for _, topic := range query.Topics {
		if _, ok := seen[topic]; !ok {
			seen[topic] = struct{}{}
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	data := map[string]interface{}{"topics": topics, "tokens": query.Tokens}
	for k, v := range details {
		data[k] = v
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := s.publisher.Publish(pubCtx, events.New(constant.EventChatTurnCompleted, data)); err != nil {
			s.logger.Warn(chatModule, "Failed to publish turn event", map[string]interface{}{"error": err})
		}
	}()
}

func (s *chatService) GetHistory(ctx context.Context, userId string) (*dto.ConversationResponse, error) {
	conversation, err := s.history.Latest(ctx, userId)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, nil
	}

	messages := make([]dto.TranscriptMessage, 0, len(conversation.Messages))
	for _, m := range conversation.Messages {
		messages = append(messages, dto.TranscriptMessage{Content: m.Content, Role: m.Role})
	}
	return &dto.ConversationResponse{
		Id:          conversation.Id,
		UserId:      conversation.UserId,
		Messages:    messages,
		LastUpdated: conversation.LastUpdated,
		CreatedAt:   conversation.CreatedAt,
	}, nil
}
