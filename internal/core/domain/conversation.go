package domain

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	// Role is one of RoleUser, RoleAssistant or RoleSystem.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// LatestUserMessage returns the most recent user turn. Only the latest
// user turn drives retrieval; prior turns are not re-embedded.
func LatestUserMessage(messages []ChatMessage) (ChatMessage, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i], true
		}
	}
	return ChatMessage{}, false
}
