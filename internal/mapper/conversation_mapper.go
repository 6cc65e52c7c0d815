package mapper

import (
	"storefront-be/internal/entity"
	"storefront-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	messages := make([]entity.ConversationMessage, len(c.Messages))
	for i, msg := range c.Messages {
		messages[i] = entity.ConversationMessage{Content: msg.Content, Role: msg.Role, SentAt: msg.SentAt}
	}

	return &entity.Conversation{
		Id:          c.Id,
		UserId:      c.UserId,
		Messages:    messages,
		LastUpdated: c.LastUpdated,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *ConversationMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	messages := make([]model.ConversationMessage, len(c.Messages))
	for i, msg := range c.Messages {
		messages[i] = model.ConversationMessage{Content: msg.Content, Role: msg.Role, SentAt: msg.SentAt}
	}

	return &model.Conversation{
		Id:          c.Id,
		UserId:      c.UserId,
		Messages:    messages,
		LastUpdated: c.LastUpdated,
		CreatedAt:   c.CreatedAt,
	}
}
