package constant

const (
	// ChatApologyMessage is returned by POST /api/chat whenever a turn fails.
	ChatApologyMessage = "I'm sorry, I encountered an error. Please try again."

	// AssistantUnavailableMessage is returned when the language model cannot be reached.
	AssistantUnavailableMessage = "I'm having trouble connecting right now. Please try again in a moment."
)

const (
	EventChatTurnCompleted = "CHAT_TURN_COMPLETED"
	EventAssistantAnswered = "ASSISTANT_ANSWERED"
)
