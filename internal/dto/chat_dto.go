package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	UserId  string `json:"userId" validate:"required"`
}

// ChatResponse has the same shape on success and failure.
type ChatResponse struct {
	Message            string            `json:"message"`
	Products           []ProductResponse `json:"products"`
	DiscountedProducts []ProductResponse `json:"discountedProducts"`
}

type TranscriptMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type ConversationResponse struct {
	Id          uuid.UUID           `json:"id"`
	UserId      string              `json:"userId"`
	Messages    []TranscriptMessage `json:"messages"`
	LastUpdated time.Time           `json:"lastUpdated"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// ChatSocketFrame is one inbound websocket message.
type ChatSocketFrame struct {
	Message string `json:"message"`
}

// TranscriptTurnMessage is queued when transcripts are recorded asynchronously.
type TranscriptTurnMessage struct {
	UserId        string    `json:"user_id"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	OccurredAt    time.Time `json:"occurred_at"`
}
