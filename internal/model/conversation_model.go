package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConversationMessage struct {
	Content string    `json:"content"`
	Role    string    `json:"role"`
	SentAt  time.Time `json:"sent_at"`
}

type Conversation struct {
	Id          uuid.UUID                                `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      string                                   `gorm:"type:text;not null;index:idx_conversations_user_created,priority:1"`
	Messages    datatypes.JSONSlice[ConversationMessage] `gorm:"type:jsonb;not null"`
	LastUpdated time.Time                                `gorm:"not null"`
	CreatedAt   time.Time                                `gorm:"autoCreateTime;index:idx_conversations_user_created,priority:2,sort:desc"`
}

func (Conversation) TableName() string {
	return "conversations"
}
