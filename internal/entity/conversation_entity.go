package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConversationRoleUser      = "user"
	ConversationRoleAssistant = "assistant"
)

type ConversationMessage struct {
	Content string
	Role    string
	// SentAt is when the turn was taken. Zero on records written before it existed.
	SentAt time.Time
}

// Conversation is the transcript of one user's chat turns. Messages are kept
// in user/assistant pairs, one pair per turn, ordered by SentAt.
type Conversation struct {
	Id          uuid.UUID
	UserId      string
	Messages    []ConversationMessage
	LastUpdated time.Time
	CreatedAt   time.Time
}

// AddTurn places one user/assistant pair after every message sent at or
// before at, so a turn that arrives late still lands in its place.
func (c *Conversation) AddTurn(userText, assistantText string, at time.Time) {
	pos := len(c.Messages)
	for pos > 0 && c.Messages[pos-1].SentAt.After(at) {
		pos--
	}
	pair := []ConversationMessage{
		{Content: userText, Role: ConversationRoleUser, SentAt: at},
		{Content: assistantText, Role: ConversationRoleAssistant, SentAt: at},
	}
	c.Messages = append(c.Messages[:pos], append(pair, c.Messages[pos:]...)...)
	if at.After(c.LastUpdated) {
		c.LastUpdated = at
	}
}
